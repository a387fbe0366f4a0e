package services

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/atom"
)

var (
	stripTags = bluemonday.StrictPolicy()
	tagOpen   = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9-]*)`)
)

// plainText removes HTML elements from user-supplied text. Bracketed words that are not
// HTML element names, as in "I love <Go> generics", are kept verbatim. Entities are
// decoded again because responses are JSON, not HTML.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripTags.Sanitize(escapeNonElements(s))))
}

// escapeNonElements escapes "<" wherever it does not open a known HTML element, so the
// sanitizer treats the bracketed text as text.
func escapeNonElements(s string) string {
	return tagOpen.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.TrimPrefix(strings.TrimPrefix(m, "<"), "/")
		if atom.Lookup([]byte(strings.ToLower(name))) != 0 {
			return m
		}
		return "&lt;" + m[1:]
	})
}
