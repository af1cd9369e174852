package domain

// Version represents one Bible translation served by one upstream source.
//
// A Version is uniquely identified by its Abbreviation. A version with
// AliasOf set has no content of its own: all content and book-name lookups
// defer to the aliased version.
type Version struct {
	// Abbreviation is the canonical unique identifier. Example: "RSV"
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`

	// Name is the full display name. Example: "Revised Standard Version"
	Name string `json:"name" yaml:"name"`

	// Source is the two-letter key of the provider serving this version.
	// Example: "bg", "ab"
	Source string `json:"source" yaml:"source"`

	// SourceID is the source-specific identifier for this version, when the
	// upstream keys versions by something other than the abbreviation.
	SourceID string `json:"sourceId,omitempty" yaml:"sourceId"`

	// AliasOf points at the abbreviation of the version actually serving
	// content. Empty for a concrete version.
	AliasOf string `json:"aliasOf,omitempty" yaml:"aliasOf"`

	SupportsOldTestament bool `json:"supportsOldTestament" yaml:"supportsOldTestament"`
	SupportsNewTestament bool `json:"supportsNewTestament" yaml:"supportsNewTestament"`
	SupportsDeuterocanon bool `json:"supportsDeuterocanon" yaml:"supportsDeuterocanon"`

	// Locale is a BCP 47 language tag. Example: "en"
	Locale string `json:"locale,omitempty" yaml:"locale"`

	// Books is populated by the metadata fetch; empty until then.
	Books []Book `json:"books,omitempty" yaml:"-"`
}

// SupportsCanon reports whether this version carries content for the
// given canon division.
func (v *Version) SupportsCanon(c Canon) bool {
	switch c {
	case OldTestament:
		return v.SupportsOldTestament
	case NewTestament:
		return v.SupportsNewTestament
	case Deuterocanon:
		return v.SupportsDeuterocanon
	default:
		return false
	}
}
