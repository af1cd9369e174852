package domain

import (
	"fmt"
	"strings"
)

// VerseRange is one comma-appended verse or verse range within a chapter.
// A single verse is represented as Start == End.
type VerseRange struct {
	Start int
	End   int
}

// Reference is a resolved, structured pointer to one or more verses in one
// book of one version.
//
// AsString, together with Version.Abbreviation, is the unit of equality used
// for deduplication and cache keys.
type Reference struct {
	// Book is the data name of the referenced book. Example: "epjer"
	Book string

	// ProperName is the display name used when rendering the reference.
	// Example: "Letter of Jeremiah"
	ProperName string

	StartingChapter int
	StartingVerse   int
	EndingChapter   int
	EndingVerse     int

	// AppendedVerses holds comma-appended pieces in mention order.
	AppendedVerses []VerseRange

	Version *Version

	// Canon is assigned by the classifier after parsing.
	Canon Canon

	// IsExpandoVerse marks an open-ended trailing-dash reference whose
	// upper bound is provider-determined. EndingVerse stays zero until a
	// provider resolves it, if it ever does.
	IsExpandoVerse bool
}

// AsString renders the canonical human-readable form:
//
//	"<ProperName> <C>:<V>[-<C2>:<V2> | -<V2>][, <V3>[-<V4>], ...]"
//
// An unresolved expando renders with a trailing bare dash.
func (r *Reference) AsString() string {
	var b strings.Builder
	b.WriteString(r.ProperName)
	fmt.Fprintf(&b, " %d:%d", r.StartingChapter, r.StartingVerse)

	switch {
	case r.IsExpandoVerse && r.EndingVerse == 0:
		b.WriteByte('-')
	case r.EndingChapter != r.StartingChapter:
		fmt.Fprintf(&b, "-%d:%d", r.EndingChapter, r.EndingVerse)
	case r.EndingVerse != r.StartingVerse:
		fmt.Fprintf(&b, "-%d", r.EndingVerse)
	}

	for _, ap := range r.AppendedVerses {
		if ap.Start == ap.End {
			fmt.Fprintf(&b, ", %d", ap.Start)
		} else {
			fmt.Fprintf(&b, ", %d-%d", ap.Start, ap.End)
		}
	}

	return b.String()
}

// Key returns the deduplication/cache identity of this reference.
func (r *Reference) Key() string {
	abbr := ""
	if r.Version != nil {
		abbr = r.Version.Abbreviation
	}
	return r.AsString() + " " + abbr
}
