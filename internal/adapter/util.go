package adapter

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles Greenhouse's double-encoding;
// no-op on already-real HTML), strips all tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// mentionsRemote reports whether any of the given fields contains "remote",
// case-insensitively. Boards without an explicit remote flag hint at it
// through the location or title text.
func mentionsRemote(fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), "remote") {
			return true
		}
	}
	return false
}
