package domain

// VerseResult is the rendered content for one reference.
//
// Two results are considered identical when their references share the same
// canonical string and version abbreviation; repeated mentions of the same
// verse/version pair within one message collapse to a single result.
type VerseResult struct {
	Reference *Reference `json:"reference"`

	// Title holds section headings joined with " / ", empty when titles
	// are disabled or the span has none.
	Title string `json:"title,omitempty"`

	// PsalmTitle holds the psalm inscription ("A Psalm of David"), when
	// present and applicable.
	PsalmTitle string `json:"psalmTitle,omitempty"`

	Text string `json:"text"`
}

// Key returns the deduplication identity of this result.
func (vr *VerseResult) Key() string {
	return vr.Reference.Key()
}
