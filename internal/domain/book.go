package domain

// Book describes one book of one version, as reported by that version's
// upstream source.
//
// A book is uniquely identified by DataName across the whole system;
// InternalName and PreferredName carry whatever the upstream source calls it.
type Book struct {
	// DataName is the canonical internal key. Example: "1tim"
	DataName string `json:"dataName"`

	// ProperName is the canonical English display name. Example: "1 Timothy"
	ProperName string `json:"properName"`

	// InternalName is the source-specific identifier used when talking to
	// the upstream API. Example: "1TI"
	InternalName string `json:"internalName,omitempty"`

	// PreferredName is the display string the source itself uses.
	// May differ from ProperName for localized versions.
	PreferredName string `json:"preferredName,omitempty"`

	Chapters []Chapter `json:"chapters,omitempty"`
}

// Chapter holds the verses of one chapter plus any section titles the
// source attaches to verse spans within it.
type Chapter struct {
	Number int            `json:"number"`
	Titles []SectionTitle `json:"titles,omitempty"`
	Verses []Verse        `json:"verses,omitempty"`
}

// SectionTitle is a heading covering a span of verses.
type SectionTitle struct {
	StartVerse int    `json:"startVerse"`
	EndVerse   int    `json:"endVerse"`
	Title      string `json:"title"`
}

// Verse is a single numbered verse with its content.
type Verse struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// BookSearchResult records a book mention found in purified message text.
// Name is the book's data name and Index its token position.
// It is consumed immediately by the span parser and never persisted.
type BookSearchResult struct {
	Name  string
	Index int
}
