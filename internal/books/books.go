// Package books carries the static book tables every other component leans
// on: the authoritative canon map, the hand-curated abbreviation table, the
// default English names, and the nuisance-word filter for scraped synonym
// candidates.
package books

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/BibleBot/backend/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// CategoryMap is the on-disk shape of the book-category map.
// It must match exactly between implementations for reference compatibility.
type CategoryMap struct {
	OT  map[string]string `json:"ot"`
	NT  map[string]string `json:"nt"`
	Deu map[string]string `json:"deu"`
}

// Tables holds the parsed static data.
type Tables struct {
	Categories    CategoryMap
	Abbreviations map[string][]string
	DefaultNames  []string
	Nuisances     map[string]struct{}

	canonOf  map[string]domain.Canon
	properOf map[string]string
}

// Load parses the embedded data files. Corrupt embedded data is a build
// defect, so the error path exists only for the tests that exercise it.
func Load() (*Tables, error) {
	t := &Tables{}

	if err := readJSON("data/book_map.json", &t.Categories); err != nil {
		return nil, err
	}
	if err := readJSON("data/abbreviations.json", &t.Abbreviations); err != nil {
		return nil, err
	}
	if err := readJSON("data/default_names.json", &t.DefaultNames); err != nil {
		return nil, err
	}

	var nuisances []string
	if err := readJSON("data/nuisances.json", &nuisances); err != nil {
		return nil, err
	}
	t.Nuisances = make(map[string]struct{}, len(nuisances))
	for _, w := range nuisances {
		t.Nuisances[w] = struct{}{}
	}

	t.canonOf = make(map[string]domain.Canon)
	t.properOf = make(map[string]string)
	for key, name := range t.Categories.OT {
		t.canonOf[key] = domain.OldTestament
		t.properOf[key] = name
	}
	for key, name := range t.Categories.NT {
		t.canonOf[key] = domain.NewTestament
		t.properOf[key] = name
	}
	for key, name := range t.Categories.Deu {
		t.canonOf[key] = domain.Deuterocanon
		t.properOf[key] = name
	}

	return t, nil
}

func readJSON(path string, out any) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read embedded %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse embedded %s: %w", path, err)
	}
	return nil
}

// Classify maps a book data name to its canon division.
func (t *Tables) Classify(dataName string) (domain.Canon, bool) {
	c, ok := t.canonOf[dataName]
	return c, ok
}

// ProperName returns the canonical English display name for a data name.
func (t *Tables) ProperName(dataName string) (string, bool) {
	name, ok := t.properOf[dataName]
	return name, ok
}

// Keys returns every known book data name in stable order.
func (t *Tables) Keys() []string {
	keys := make([]string, 0, len(t.canonOf))
	for key := range t.canonOf {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsNuisance reports whether a scraped synonym candidate word is noise.
func (t *Tables) IsNuisance(word string) bool {
	_, ok := t.Nuisances[word]
	return ok
}

// CanonMismatchError reports a reference whose canon the target version
// does not carry. Callers surface the canon/version pair, not a generic
// failure.
type CanonMismatchError struct {
	Canon   domain.Canon
	Version string
}

func (e *CanonMismatchError) Error() string {
	return fmt.Sprintf("version %s does not support the %s", e.Version, e.Canon)
}

// ValidateSupport checks a classified reference against the target
// version's capability flags.
func ValidateSupport(ref *domain.Reference, v *domain.Version) error {
	if v.SupportsCanon(ref.Canon) {
		return nil
	}
	return &CanonMismatchError{Canon: ref.Canon, Version: v.Abbreviation}
}
