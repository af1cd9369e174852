package config

import (
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		set      bool
		def      string
		expected string
	}{
		{
			name:     "variable set",
			key:      "TEST_VAR",
			value:    "test_value",
			set:      true,
			def:      "fallback",
			expected: "test_value",
		},
		{
			name:     "variable not set",
			key:      "TEST_VAR_MISSING",
			def:      "fallback",
			expected: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(tt.key, tt.value)
			}
			if got := getenv(tt.key, tt.def); got != tt.expected {
				t.Errorf("getenv() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		set      bool
		def      int
		expected int
	}{
		{
			name:     "valid integer",
			key:      "TEST_INT",
			value:    "42",
			set:      true,
			def:      7,
			expected: 42,
		},
		{
			name:     "invalid integer falls back",
			key:      "TEST_INT_INVALID",
			value:    "not_a_number",
			set:      true,
			def:      7,
			expected: 7,
		},
		{
			name:     "missing falls back",
			key:      "TEST_INT_MISSING",
			def:      7,
			expected: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(tt.key, tt.value)
			}
			if got := getenvInt(tt.key, tt.def); got != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", set: true, def: false, expected: true},
		{name: "false value", value: "false", set: true, def: true, expected: false},
		{name: "garbage falls back", value: "yep", set: true, def: true, expected: true},
		{name: "missing falls back", def: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("TEST_BOOL", tt.value)
			}
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "90s", set: true, def: time.Minute, expected: 90 * time.Second},
		{name: "invalid duration falls back", value: "soon", set: true, def: time.Minute, expected: time.Minute},
		{name: "missing falls back", def: time.Minute, expected: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("TEST_DURATION", tt.value)
			}
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "comma separated with spaces",
			input:    "10.0.0.0/8, 192.168.1.0/24",
			expected: []string{"10.0.0.0/8", "192.168.1.0/24"},
		},
		{
			name:     "quoted entries",
			input:    `"10.0.0.1", '10.0.0.2'`,
			expected: []string{"10.0.0.1", "10.0.0.2"},
		},
		{
			name:     "empty entries dropped",
			input:    "a,,b, ,c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}
