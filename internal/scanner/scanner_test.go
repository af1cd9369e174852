package scanner

import (
	"testing"

	"github.com/BibleBot/backend/internal/index"
	"github.com/BibleBot/backend/internal/purify"
)

func testSnapshot() *index.Snapshot {
	synonyms := map[string]string{
		"genesis":                     "gen",
		"gen":                         "gen",
		"john":                        "john",
		"jeremiah":                    "jer",
		"jer":                         "jer",
		"letter of jeremiah":          "epjer",
		"esther":                      "esth",
		"greek esther":                "gkesth",
		"ezra":                        "ezra",
		"1 esdras":                    "1esd",
		"song of the three young men": "sgthree",
		"psalms":                      "ps",
		"psalm":                       "ps",
	}
	proper := map[string]string{
		"gen":     "Genesis",
		"john":    "John",
		"jer":     "Jeremiah",
		"epjer":   "Letter of Jeremiah",
		"esth":    "Esther",
		"gkesth":  "Greek Esther",
		"ezra":    "Ezra",
		"1esd":    "1 Esdras",
		"sgthree": "Song of the Three Young Men",
		"ps":      "Psalms",
	}
	defaults := []string{"gen", "john", "jer", "epjer", "esth", "gkesth", "ezra", "1esd", "sgthree", "ps"}
	return index.Build(synonyms, defaults, proper, nil)
}

func TestFindBooks(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name     string
		text     string
		expected []string // book keys in mention order
	}{
		{
			name:     "simple mention",
			text:     "genesis 1:1",
			expected: []string{"gen"},
		},
		{
			name:     "longer name wins over contained name",
			text:     "letter of jeremiah 1:4",
			expected: []string{"epjer"},
		},
		{
			name:     "contained name still matches alone",
			text:     "jeremiah 29:11",
			expected: []string{"jer"},
		},
		{
			name:     "greek esther vs esther",
			text:     "greek esther 1:1 and esther 2:1",
			expected: []string{"gkesth", "esth"},
		},
		{
			name:     "1 esdras vs ezra",
			text:     "1 esdras 1:1 then ezra 1:1",
			expected: []string{"1esd", "ezra"},
		},
		{
			name:     "song of the three young men",
			text:     "song of the three young men 1:3",
			expected: []string{"sgthree"},
		},
		{
			name:     "multiple mentions keep order",
			text:     "john 3:16 and genesis 1:1",
			expected: []string{"john", "gen"},
		},
		{
			name:     "no mention",
			text:     "ordinary prose with a ratio 1:5 inside",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindBooks(purify.Text(tt.text), snap)
			if len(got) != len(tt.expected) {
				t.Fatalf("FindBooks() returned %d mentions, want %d: %+v", len(got), len(tt.expected), got)
			}
			for i, want := range tt.expected {
				if got[i].Name != want {
					t.Errorf("mention %d = %q, want %q", i, got[i].Name, want)
				}
			}
		})
	}
}

func TestFindBooksOrderedByPosition(t *testing.T) {
	snap := testSnapshot()
	got := FindBooks("ezra 1:1 before 1 esdras 2:2", snap)
	if len(got) != 2 {
		t.Fatalf("expected 2 mentions, got %+v", got)
	}
	if got[0].Name != "ezra" || got[1].Name != "1esd" {
		t.Errorf("wrong order: %+v", got)
	}
	if got[0].Index >= got[1].Index {
		t.Errorf("indexes not increasing: %+v", got)
	}
}

func TestTokenizeMatchesIndexes(t *testing.T) {
	snap := testSnapshot()
	text := purify.Text("please read Letter of Jeremiah 1:4 today")
	tokens := Tokenize(text, snap)
	mentions := FindBooks(text, snap)
	if len(mentions) != 1 {
		t.Fatalf("expected 1 mention, got %+v", mentions)
	}
	m := mentions[0]
	if tokens[m.Index] != "epjer" {
		t.Errorf("tokens[%d] = %q, want epjer (tokens=%v)", m.Index, tokens[m.Index], tokens)
	}
	if m.Index+1 >= len(tokens) || tokens[m.Index+1] != "1:4" {
		t.Errorf("span token missing after mention: %v", tokens)
	}
}
