package purify

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		extra    []BracketPair
		expected string
	}{
		{
			name:     "lowercases and collapses whitespace",
			input:    "Genesis   1:1\r\nand  more",
			expected: "genesis 1:1 and more",
		},
		{
			name:     "strips punctuation but keeps span characters",
			input:    "read! Genesis 1:1-3, 5 (please)",
			expected: "read genesis 1:1-3, 5 please",
		},
		{
			name:     "angle brackets always removed",
			input:    "hey <@123456> check John 3:16",
			expected: "hey check john 3:16",
		},
		{
			name:     "multiple angle pairs removed independently",
			input:    "<a> keep <b> this",
			expected: "keep this",
		},
		{
			name:     "extra bracket pair removed",
			input:    "ignore {John 3:16} but keep Mark 1:1",
			extra:    []BracketPair{{Open: "{", Close: "}"}},
			expected: "ignore but keep mark 1:1",
		},
		{
			name:     "incomplete extra pair is skipped",
			input:    "keep [this]",
			extra:    []BracketPair{{Open: "[", Close: ""}},
			expected: "keep this",
		},
		{
			name:     "unicode dashes normalize to hyphen",
			input:    "John 3:16–17 and 3:18—19",
			expected: "john 3:16-17 and 3:18-19",
		},
		{
			name:     "commas and colons survive",
			input:    "Psalm 1:1, 3, 5",
			expected: "psalm 1:1, 3, 5",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input, tt.extra...); got != tt.expected {
				t.Errorf("Text() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"Genesis 1:1-3, 5 and <stuff> John 3:16",
		"1 Corinthians 13:4–7 KJV",
		"plain prose, no references here",
	}
	for _, input := range inputs {
		once := Text(input)
		twice := Text(once)
		if once != twice {
			t.Errorf("Text not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestVerseText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "smart quotes become ascii",
			input:    "“In the beginning” God’s word",
			expected: `"In the beginning" God's word`,
		},
		{
			name:     "selah marker normalized",
			input:    "my glory, and the lifter up of mine head. [Selah]",
			expected: "my glory, and the lifter up of mine head. Selah",
		},
		{
			name:     "selah in parens with period",
			input:    "till the earth (selah.) sang",
			expected: "till the earth Selah sang",
		},
		{
			name:     "selah inside a word untouched",
			input:    "counselahead",
			expected: "counselahead",
		},
		{
			name:     "whitespace collapsed",
			input:    "  many   spaces\n here ",
			expected: "many spaces here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerseText(tt.input); got != tt.expected {
				t.Errorf("VerseText() = %q, want %q", got, tt.expected)
			}
		})
	}
}
