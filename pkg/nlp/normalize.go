package nlp

import (
	"regexp"
	"strings"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// Normalize canonicalizes text for phrase comparison:
// lowercase, every character outside [a-z0-9 ] becomes a space,
// whitespace runs collapse to one space, ends are trimmed.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = reNonAlnum.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeAll applies Normalize to every entry, preserving order.
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Normalize(t)
	}
	return out
}
