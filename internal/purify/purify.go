// Package purify normalizes raw message text before reference scanning and
// cleans up verse content before presentation. The two concerns share string
// plumbing but nothing else: Text feeds the scanner, VerseText feeds users.
package purify

import (
	"regexp"
	"strings"
	"sync"
)

// BracketPair is a pair of delimiters whose enclosed content is removed
// from message text before scanning.
type BracketPair struct {
	Open  string
	Close string
}

// AngleBrackets is always enforced, regardless of per-guild configuration.
var AngleBrackets = BracketPair{Open: "<", Close: ">"}

// punctuation stripped to spaces from message text. Colon, hyphen, comma,
// digits and spaces survive because the span grammar needs them.
const punctuation = "!\"#$%&'()*+./;<=>?@[\\]^_`{|}~"

var (
	dashes     = regexp.MustCompile("[‐‑‒–—―−]")
	bracketRes sync.Map // BracketPair -> *regexp.Regexp
)

// Text normalizes a raw message into the form the mention scanner operates
// on: lowercased, newline-free, bracket-excluded, punctuation-stripped,
// single-spaced.
//
// Content inside <> is always removed; extra pairs (at most one per guild in
// practice) are removed the same way.
func Text(raw string, extra ...BracketPair) string {
	s := strings.ToLower(raw)
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)

	s = stripBrackets(s, AngleBrackets)
	for _, pair := range extra {
		if pair.Open == "" || pair.Close == "" {
			continue
		}
		s = stripBrackets(s, pair)
	}

	s = dashes.ReplaceAllString(s, "-")

	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// stripBrackets removes every non-nested open...close span in one
// non-greedy sweep.
func stripBrackets(s string, pair BracketPair) string {
	re := bracketRegexp(pair)
	return re.ReplaceAllString(s, " ")
}

func bracketRegexp(pair BracketPair) *regexp.Regexp {
	if cached, ok := bracketRes.Load(pair); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile("(?s)" + regexp.QuoteMeta(pair.Open) + ".*?" + regexp.QuoteMeta(pair.Close))
	bracketRes.Store(pair, re)
	return re
}
