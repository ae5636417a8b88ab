// Package sanitize cleans display text coming from external corpus sources.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips markup and collapses runs of whitespace into single spaces.
// The policy runs a second time after entity decoding so encoded markup
// cannot survive.
func Text(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(strict.Sanitize(s))
	out = html.UnescapeString(strict.Sanitize(out))
	return strings.Join(strings.Fields(out), " ")
}

// Labels sanitizes every label and drops the ones left empty. The result is
// never nil.
func Labels(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if cleaned := Text(v); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
