// Package htmlsanitize cleans admin-authored rich text (blog posts, page
// blocks) and strips markup from fields that must stay plain text.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once

	strict     *bluemonday.Policy
	strictOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()

		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		policy.AllowElements("u", "s", "sub", "sup", "mark", "figure", "figcaption")
		policy.AllowAttrs("loading").Matching(bluemonday.SpaceSeparatedTokens).OnElements("img")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy
}

func getStrict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Sanitize removes dangerous elements and attributes from rich text while
// keeping formatting, links, images and tables.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return getPolicy().Sanitize(s)
}

// maxTextPasses bounds the strip-and-decode rounds in Text.
const maxTextPasses = 16

// Text strips every tag and returns plain text with entities decoded, so
// "A &amp; B" is stored as "A & B". Decoding can expose markup that was
// encoded ("&lt;b&gt;"), so the strict policy runs again until the result
// stops changing. The result never contains a tag and Text(Text(s)) ==
// Text(s). Input that keeps changing after maxTextPasses yields "".
func Text(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < maxTextPasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(getStrict().Sanitize(s)))
		if next == s {
			return s
		}
		s = next
	}
	return ""
}

// IsPlainText reports whether content has no markup.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes text and turns blank-line separated blocks into
// paragraphs and single newlines into <br>.
func PlainTextToHTML(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// PrepareContent returns stored-ready HTML: plain text is converted, markup
// is sanitized.
func PrepareContent(content string) string {
	if IsPlainText(content) {
		return PlainTextToHTML(content)
	}
	return Sanitize(content)
}
