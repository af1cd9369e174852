// Package refparse turns a scanned book mention plus its trailing tokens
// into a structured Reference.
//
// Failure to parse is a value, not an error: ordinary prose produces
// near-misses constantly, and every rejection here is a mention the
// resolver silently skips. The grammar is deliberately whitespace- and
// zero-intolerant inside the span so prose like "ratio 1: 5 is fine" never
// resolves.
package refparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/BibleBot/backend/internal/domain"
	"github.com/BibleBot/backend/internal/index"
)

// versePiece matches a comma-appended continuation token: "3", "5-7",
// possibly with its own trailing comma.
var versePiece = regexp.MustCompile(`^\d+(-\d+)?,?$`)

// Parse builds a Reference for one book mention. tokens is the substituted
// token stream the mention's Index refers to, defaultVersion the target
// unless the span carries an exact version-abbreviation override.
//
// The boolean reports whether the mention formed a valid reference;
// callers drop invalid mentions and move on.
func Parse(tokens []string, mention domain.BookSearchResult, defaultVersion *domain.Version, snap *index.Snapshot) (*domain.Reference, bool) {
	if mention.Index+1 >= len(tokens) {
		return nil, false
	}

	span, consumed := collectSpan(tokens, mention.Index+1)
	if !strings.Contains(span, ":") {
		return nil, false
	}

	proper, ok := snap.ProperName(mention.Name)
	if !ok {
		return nil, false
	}

	ref := &domain.Reference{
		Book:       mention.Name,
		ProperName: proper,
		Version:    defaultVersion,
	}

	switch strings.Count(span, ":") {
	case 1:
		if !parseSameChapter(span, ref) {
			return nil, false
		}
	case 2:
		if !parseCrossChapter(span, ref) {
			return nil, false
		}
	default:
		return nil, false
	}

	// A further token that exactly matches a known version abbreviation
	// overrides the target version for this one reference.
	if next := mention.Index + 1 + consumed; next < len(tokens) {
		if v, ok := snap.ResolveVersion(tokens[next]); ok {
			ref.Version = v
		}
	}

	return ref, true
}

// collectSpan joins the span token with any comma-continued verse tokens
// that follow it, so "1:1, 3, 9" and "1:1,3,9" produce the same span
// string. It returns the joined span and how many tokens it consumed.
//
// A comma left dangling at the end of the span is prose punctuation
// ("John 3:16, what a verse"), not part of the reference; it is dropped
// rather than rejecting the whole mention.
func collectSpan(tokens []string, start int) (string, int) {
	span := tokens[start]
	consumed := 1
	for strings.HasSuffix(span, ",") {
		next := start + consumed
		if next >= len(tokens) || !versePiece.MatchString(tokens[next]) {
			break
		}
		span += tokens[next]
		consumed++
	}
	return strings.TrimSuffix(span, ","), consumed
}

// parseSameChapter handles "C:V[-V2][,V3[-V4],...]" with the trailing-dash
// expando form "C:V-".
func parseSameChapter(span string, ref *domain.Reference) bool {
	colon := strings.Index(span, ":")
	chapter, ok := parseNum(span[:colon])
	if !ok {
		return false
	}
	ref.StartingChapter = chapter
	ref.EndingChapter = chapter

	pieces := strings.Split(span[colon+1:], ",")

	first := pieces[0]
	if strings.HasSuffix(first, "-") {
		// Open-ended range: the provider determines the true end.
		start, ok := parseNum(strings.TrimSuffix(first, "-"))
		if !ok {
			return false
		}
		ref.StartingVerse = start
		ref.IsExpandoVerse = true
	} else {
		start, end, ok := parseRange(first)
		if !ok {
			return false
		}
		ref.StartingVerse = start
		ref.EndingVerse = end
	}

	for _, piece := range pieces[1:] {
		if piece == "" {
			return false
		}
		start, end, ok := parseRange(piece)
		if !ok {
			return false
		}
		ref.AppendedVerses = append(ref.AppendedVerses, domain.VerseRange{Start: start, End: end})
	}

	return true
}

// parseCrossChapter handles "C1:V1-C2:V2".
func parseCrossChapter(span string, ref *domain.Reference) bool {
	halves := strings.Split(span, "-")
	if len(halves) != 2 {
		return false
	}

	startChapter, startVerse, ok := parsePair(halves[0])
	if !ok {
		return false
	}
	endChapter, endVerse, ok := parsePair(halves[1])
	if !ok {
		return false
	}

	ref.StartingChapter = startChapter
	ref.StartingVerse = startVerse
	ref.EndingChapter = endChapter
	ref.EndingVerse = endVerse
	return true
}

// parsePair parses one "C:V" half of a cross-chapter span.
func parsePair(s string) (int, int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	chapter, ok := parseNum(parts[0])
	if !ok {
		return 0, 0, false
	}
	verse, ok := parseNum(parts[1])
	if !ok {
		return 0, 0, false
	}
	return chapter, verse, true
}

// parseRange parses "V" or "V1-V2"; a single value becomes (v, v).
func parseRange(s string) (int, int, bool) {
	if !strings.Contains(s, "-") {
		v, ok := parseNum(s)
		return v, v, ok
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok := parseNum(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok := parseNum(parts[1])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// parseNum parses one numeric piece, stripping stray non-digit punctuation
// from its edges. Zero is rejected: there is no verse or chapter 0, and
// accepting it would let ordinary prose resolve.
func parseNum(s string) (int, bool) {
	s = strings.TrimFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
