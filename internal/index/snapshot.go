package index

import (
	"regexp"
	"sort"
	"strings"

	"github.com/BibleBot/backend/internal/domain"
)

// aliasHopLimit bounds alias resolution. Chains are one level deep in
// practice; the bound exists so a misconfigured cycle cannot loop forever.
const aliasHopLimit = 4

// SynonymEntry is one book-name surface form with its precompiled
// whole-word matcher. Entries are ordered longest surface form first so a
// long synonym is always consumed before any shorter synonym it contains.
type SynonymEntry struct {
	Text    string
	Key     string
	Pattern *regexp.Regexp
}

// Snapshot is an immutable view of the book-name index and version
// registry. It is built once per reload and shared across requests.
type Snapshot struct {
	entries   []SynonymEntry
	keyTokens map[string]string // bare token -> book data name
	proper    map[string]string // data name -> display name
	versions  map[string]*domain.Version
}

// Build constructs a snapshot from the merged synonym table, the default
// name list, the display-name map, and the known versions.
func Build(synonyms map[string]string, defaults []string, proper map[string]string, versions []*domain.Version) *Snapshot {
	snap := &Snapshot{
		keyTokens: make(map[string]string, len(defaults)+len(proper)),
		proper:    make(map[string]string, len(proper)),
		versions:  make(map[string]*domain.Version, len(versions)),
	}

	for key, name := range proper {
		snap.proper[key] = name
		snap.keyTokens[key] = key
	}
	for _, key := range defaults {
		snap.keyTokens[key] = key
	}

	snap.entries = make([]SynonymEntry, 0, len(synonyms))
	for text, key := range synonyms {
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			continue
		}
		snap.entries = append(snap.entries, SynonymEntry{
			Text:    text,
			Key:     key,
			Pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(text) + `\b`),
		})
	}
	sort.Slice(snap.entries, func(i, j int) bool {
		a, b := snap.entries[i], snap.entries[j]
		if len(a.Text) != len(b.Text) {
			return len(a.Text) > len(b.Text)
		}
		return a.Text < b.Text
	})

	for _, v := range versions {
		snap.versions[strings.ToLower(v.Abbreviation)] = v
	}

	return snap
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		keyTokens: map[string]string{},
		proper:    map[string]string{},
		versions:  map[string]*domain.Version{},
	}
}

// Synonyms returns the entries in matching order (longest first).
func (s *Snapshot) Synonyms() []SynonymEntry { return s.entries }

// BookKey resolves a bare token to a book data name.
func (s *Snapshot) BookKey(token string) (string, bool) {
	key, ok := s.keyTokens[token]
	return key, ok
}

// ProperName returns the display name for a book data name.
func (s *Snapshot) ProperName(key string) (string, bool) {
	name, ok := s.proper[key]
	return name, ok
}

// Version looks up a version by abbreviation, case-insensitively, without
// following aliases.
func (s *Snapshot) Version(abbr string) (*domain.Version, bool) {
	v, ok := s.versions[strings.ToLower(abbr)]
	return v, ok
}

// ResolveVersion looks up a version and follows its alias chain to the
// version actually serving content. Resolution is hop-bounded so a
// misconfigured alias cycle yields a miss instead of a hang.
func (s *Snapshot) ResolveVersion(abbr string) (*domain.Version, bool) {
	v, ok := s.versions[strings.ToLower(abbr)]
	if !ok {
		return nil, false
	}
	for hops := 0; v.AliasOf != ""; hops++ {
		if hops >= aliasHopLimit {
			return nil, false
		}
		next, ok := s.versions[strings.ToLower(v.AliasOf)]
		if !ok {
			return nil, false
		}
		v = next
	}
	return v, true
}

// Versions returns every registered version.
func (s *Snapshot) Versions() []*domain.Version {
	out := make([]*domain.Version, 0, len(s.versions))
	for _, v := range s.versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}
