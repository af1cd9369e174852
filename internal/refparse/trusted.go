package refparse

import (
	"strings"

	"github.com/BibleBot/backend/internal/domain"
)

// ParseTrusted parses an internally-generated reference string of the
// canonical form "<Book Name> <span>", bypassing the mention scanner. The
// book name is taken verbatim, so this must never see user input.
func ParseTrusted(raw string, version *domain.Version) (*domain.Reference, bool) {
	tokens := strings.Fields(strings.TrimSpace(raw))
	if len(tokens) < 2 {
		return nil, false
	}

	span := tokens[len(tokens)-1]
	name := strings.Join(tokens[:len(tokens)-1], " ")
	if name == "" || !strings.Contains(span, ":") {
		return nil, false
	}

	ref := &domain.Reference{
		ProperName: name,
		Version:    version,
	}

	switch strings.Count(span, ":") {
	case 1:
		if !parseSameChapter(span, ref) {
			return nil, false
		}
	case 2:
		if !parseCrossChapter(span, ref) {
			return nil, false
		}
	default:
		return nil, false
	}

	return ref, true
}
