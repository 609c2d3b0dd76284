package htmlsanitize

import (
	"regexp"
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		contains   []string
		notContain []string
	}{
		{"empty", "", nil, nil},
		{"keeps formatting", "<p><strong>bold</strong> and <em>it</em></p>", []string{"<strong>bold</strong>", "<em>it</em>"}, nil},
		{"drops script", `<p>hi</p><script>alert(1)</script>`, []string{"<p>hi</p>"}, []string{"script", "alert"}},
		{"drops handlers", `<img src="https://x.test/a.png" onerror="steal()">`, []string{`src="https://x.test/a.png"`}, []string{"onerror"}},
		{"drops javascript links", `<a href="javascript:alert(1)">x</a>`, nil, []string{"javascript:"}},
		{"nofollow links", `<a href="https://example.com">x</a>`, []string{`rel="nofollow`}, nil},
		{"keeps tables", "<table><tr><td colspan=\"2\">a</td></tr></table>", []string{"<table>", `colspan="2"`}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			for _, c := range tt.contains {
				if !strings.Contains(got, c) {
					t.Errorf("Sanitize(%q) = %q, missing %q", tt.in, got, c)
				}
			}
			for _, c := range tt.notContain {
				if strings.Contains(got, c) {
					t.Errorf("Sanitize(%q) = %q, should not contain %q", tt.in, got, c)
				}
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	in := `<h2>Title</h2><p>Body <a href="https://example.com">link</a></p><ul><li>x</li></ul>`
	once := Sanitize(in)
	if twice := Sanitize(once); twice != once {
		t.Errorf("not idempotent:\n%q\n%q", once, twice)
	}
}

func TestText(t *testing.T) {
	tests := map[string]string{
		"":                         "",
		"  plain  ":                "plain",
		"<b>Jane</b> Doe":          "Jane Doe",
		"Tom & Jerry":              "Tom & Jerry",
		"<script>x()</script>safe": "safe",
	}
	for in, want := range tests {
		if got := Text(in); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

// tagOpen matches a '<' that a browser would read as the start of markup.
var tagOpen = regexp.MustCompile(`<[A-Za-z/!?]`)

func TestText_EncodedMarkup(t *testing.T) {
	tests := map[string]string{
		"&lt;script&gt;alert(1)&lt;/script&gt;":          "",
		"&lt;b&gt;bold&lt;/b&gt; text":                   "bold text",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;":     "",
		"<p>&lt;script&gt;x()&lt;/script&gt;fine</p>":    "fine",
		"Fish &amp; Chips":                               "Fish & Chips",
		"a &lt; b":                                       "a < b",
	}
	for in, want := range tests {
		if got := Text(in); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestText_Stable(t *testing.T) {
	inputs := []string{
		"",
		"plain words",
		"Tom & Jerry",
		"a < b > c",
		"<b>Jane</b> Doe",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"<<script>script>alert(1)<</script>/script>",
		"&amp;amp;lt;i&amp;amp;gt;deep&amp;amp;lt;/i&amp;amp;gt;",
		"<scr<script>ipt>alert(1)</script>",
		"<!-- note --><a href=\"javascript:x()\">link</a>",
	}
	for _, in := range inputs {
		once := Text(in)
		if twice := Text(once); twice != once {
			t.Errorf("Text not stable for %q: %q then %q", in, once, twice)
		}
		if tagOpen.MatchString(once) {
			t.Errorf("Text(%q) = %q still contains markup", in, once)
		}
	}
}

func TestIsPlainText(t *testing.T) {
	tests := map[string]bool{
		"":               true,
		"hello":          true,
		"a < b":          true,
		"<p>hello</p>":   false,
		"x > y and y< z": false,
	}
	for in, want := range tests {
		if got := IsPlainText(in); got != want {
			t.Errorf("IsPlainText(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPlainTextToHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"one", "<p>one</p>"},
		{"a\nb", "<p>a<br>b</p>"},
		{"first\n\nsecond", "<p>first</p><p>second</p>"},
		{"5 < 6 & 7", "<p>5 &lt; 6 &amp; 7</p>"},
	}
	for _, tt := range tests {
		if got := PlainTextToHTML(tt.in); got != tt.want {
			t.Errorf("PlainTextToHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrepareContent(t *testing.T) {
	if got := PrepareContent("hello\nworld"); got != "<p>hello<br>world</p>" {
		t.Errorf("plain: %q", got)
	}
	if got := PrepareContent("<p>ok</p><script>bad()</script>"); strings.Contains(got, "script") {
		t.Errorf("html: %q", got)
	}
}
