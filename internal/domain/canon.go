package domain

// Canon identifies which division of the biblical canon a book belongs to.
// Every book belongs to exactly one canon once classified.
type Canon int

const (
	CanonUnknown Canon = iota
	OldTestament
	NewTestament
	Deuterocanon
)

func (c Canon) String() string {
	switch c {
	case OldTestament:
		return "Old Testament"
	case NewTestament:
		return "New Testament"
	case Deuterocanon:
		return "Deuterocanon"
	default:
		return "unknown"
	}
}

// Key returns the short identifier used in data files and wire payloads.
func (c Canon) Key() string {
	switch c {
	case OldTestament:
		return "ot"
	case NewTestament:
		return "nt"
	case Deuterocanon:
		return "deu"
	default:
		return ""
	}
}
