// Package normalize canonicalizes the strings the stores use as lookup keys,
// so "Admin@Site.com " and "admin@site.com" find the same user and
// "Home"/"Hero Banner" find the same page-content section.
package normalize

import "strings"

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner whitespace runs.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key lowercases a page, section or setting key and joins its words with
// hyphens: " Hero  Banner" becomes "hero-banner".
func Key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// Role and Status are closed vocabularies compared case-insensitively.
func Role(s string) string   { return strings.ToLower(strings.TrimSpace(s)) }
func Status(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
