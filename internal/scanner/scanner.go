// Package scanner finds book-name mentions in purified message text.
//
// Matching is two-pass: every synonym in the index, longest surface form
// first, is replaced in place by its canonical book key; the result is then
// tokenized and any bare book-key token is recorded with its position.
// Replacing "letter of jeremiah" wholesale before the second pass means the
// bare token "jeremiah" can never be falsely matched inside the longer
// phrase.
package scanner

import (
	"sort"
	"strings"

	"github.com/BibleBot/backend/internal/domain"
	"github.com/BibleBot/backend/internal/index"
)

// FindBooks returns every book mention in purified text, sorted by token
// index (left-to-right order of mention). The returned indexes are valid
// against Tokenize(text, snap).
func FindBooks(text string, snap *index.Snapshot) []domain.BookSearchResult {
	replaced := substitute(text, snap)

	var results []domain.BookSearchResult
	for i, token := range strings.Fields(replaced) {
		if key, ok := snap.BookKey(token); ok {
			results = append(results, domain.BookSearchResult{Name: key, Index: i})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// Tokenize returns the token stream the span parser consumes: the purified
// text after synonym substitution, split on spaces.
func Tokenize(text string, snap *index.Snapshot) []string {
	return strings.Fields(substitute(text, snap))
}

// substitute replaces every whole-word synonym occurrence with its book
// key. Longest synonyms run first; a key emitted by an earlier replacement
// never re-matches a shorter synonym because keys contain no word breaks.
func substitute(text string, snap *index.Snapshot) string {
	for _, entry := range snap.Synonyms() {
		if !strings.Contains(text, entry.Text) {
			continue
		}
		text = entry.Pattern.ReplaceAllString(text, entry.Key)
	}
	return text
}
