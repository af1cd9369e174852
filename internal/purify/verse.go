package purify

import (
	"regexp"
	"strings"
)

// Presentation cleanup for fetched verse content. This is independent of
// Text: it never runs on user input and must not be applied before parsing.

var (
	selahMarker = regexp.MustCompile(`(?i)[\[\(]?\s*\bselah\b\.?\s*[\]\)]?`)
	multiSpace  = regexp.MustCompile(`\s+`)

	smartQuotes = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"«", `"`, "»", `"`,
	)
)

// VerseText cleans fetched verse content for display: smart quotes become
// ASCII, "Selah" footnote markers are normalized into plain italic-safe
// text, and stray whitespace collapses.
func VerseText(s string) string {
	s = smartQuotes.Replace(s)
	s = selahMarker.ReplaceAllString(s, " Selah ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
