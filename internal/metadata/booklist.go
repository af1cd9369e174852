package metadata

import (
	"github.com/BibleBot/backend/internal/domain"
)

// BookEntry is one row of a version's book list as shown to users.
type BookEntry struct {
	DataName string `json:"dataName"`
	Name     string `json:"name"`
}

// BookList is a version's books partitioned by canon section.
type BookList struct {
	OT  []BookEntry `json:"ot,omitempty"`
	NT  []BookEntry `json:"nt,omitempty"`
	Deu []BookEntry `json:"deu,omitempty"`
}

// VersionBookList partitions the version's fetched books by canon and
// applies display conventions: Septuagint-derived versions that merge Ezra
// and Nehemiah show the combined name, and a Psalms entry carrying a 151st
// chapter is marked so readers know the extra psalm is present.
func (s *Service) VersionBookList(v *domain.Version) BookList {
	var out BookList

	hasNehemiah := false
	for _, b := range v.Books {
		if b.DataName == "neh" {
			hasNehemiah = true
		}
	}

	for _, b := range v.Books {
		if b.DataName == "" {
			continue
		}
		name := b.PreferredName
		if name == "" {
			name = b.ProperName
		}

		switch b.DataName {
		case "ezra":
			if !hasNehemiah {
				name = "Ezra/Nehemiah"
			}
		case "ps":
			if hasPsalm151(b) {
				name += " (with Psalm 151)"
			}
		}

		canon, ok := s.tables.Classify(b.DataName)
		if !ok {
			continue
		}

		entry := BookEntry{DataName: b.DataName, Name: name}
		switch canon {
		case domain.OldTestament:
			out.OT = append(out.OT, entry)
		case domain.NewTestament:
			out.NT = append(out.NT, entry)
		case domain.Deuterocanon:
			out.Deu = append(out.Deu, entry)
		}
	}
	return out
}

func hasPsalm151(b domain.Book) bool {
	if len(b.Chapters) >= 151 {
		return true
	}
	for _, ch := range b.Chapters {
		if ch.Number == 151 {
			return true
		}
	}
	return false
}
