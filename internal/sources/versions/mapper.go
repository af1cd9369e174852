package versions

import (
	"fmt"

	"github.com/BibleBot/backend/internal/domain"
)

// Mapper converts parsed version entries to domain.Version values.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapVersions validates and converts the parsed file. Abbreviations must be
// unique; an entry is either an alias or carries a source, never both, and
// an alias must point at a concrete entry in the same file.
func (m *Mapper) MapVersions(f *File) ([]*domain.Version, error) {
	if f == nil || len(f.Versions) == 0 {
		return nil, fmt.Errorf("no versions declared")
	}

	byAbbr := make(map[string]*domain.Version, len(f.Versions))
	out := make([]*domain.Version, 0, len(f.Versions))

	for _, e := range f.Versions {
		if e.Abbreviation == "" {
			return nil, fmt.Errorf("version entry missing abbreviation")
		}
		if _, dup := byAbbr[e.Abbreviation]; dup {
			return nil, fmt.Errorf("duplicate version abbreviation %q", e.Abbreviation)
		}

		switch {
		case e.AliasOf != "" && e.Source != "":
			return nil, fmt.Errorf("version %s: aliasOf and source are mutually exclusive", e.Abbreviation)
		case e.AliasOf == "" && e.Source == "":
			return nil, fmt.Errorf("version %s: needs a source or an aliasOf", e.Abbreviation)
		}

		v := &domain.Version{
			Abbreviation:         e.Abbreviation,
			Name:                 e.Name,
			Source:               e.Source,
			SourceID:             e.SourceID,
			AliasOf:              e.AliasOf,
			Locale:               e.Locale,
			SupportsOldTestament: e.Supports.OT,
			SupportsNewTestament: e.Supports.NT,
			SupportsDeuterocanon: e.Supports.Deu,
		}
		byAbbr[e.Abbreviation] = v
		out = append(out, v)
	}

	for _, v := range out {
		if v.AliasOf == "" {
			continue
		}
		target, ok := byAbbr[v.AliasOf]
		if !ok {
			return nil, fmt.Errorf("version %s: aliasOf %q does not exist", v.Abbreviation, v.AliasOf)
		}
		if target.AliasOf != "" {
			// One hop only in the seed file; chains are resolved at
			// lookup time with a bounded walk.
			return nil, fmt.Errorf("version %s: aliasOf %q is itself an alias", v.Abbreviation, v.AliasOf)
		}
	}

	return out, nil
}
