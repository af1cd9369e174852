package books

import (
	"errors"
	"testing"

	"github.com/BibleBot/backend/internal/domain"
)

func loadTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return tables
}

func TestLoadCounts(t *testing.T) {
	tables := loadTables(t)

	if got := len(tables.Categories.OT); got != 39 {
		t.Errorf("OT book count = %d, want 39", got)
	}
	if got := len(tables.Categories.NT); got != 27 {
		t.Errorf("NT book count = %d, want 27", got)
	}
	if len(tables.Categories.Deu) == 0 {
		t.Error("deuterocanon map is empty")
	}
	if len(tables.DefaultNames) != len(tables.Categories.OT)+len(tables.Categories.NT)+len(tables.Categories.Deu) {
		t.Errorf("default names (%d) do not cover every book", len(tables.DefaultNames))
	}
}

func TestClassify(t *testing.T) {
	tables := loadTables(t)

	tests := []struct {
		dataName string
		expected domain.Canon
	}{
		{"gen", domain.OldTestament},
		{"mal", domain.OldTestament},
		{"matt", domain.NewTestament},
		{"rev", domain.NewTestament},
		{"tob", domain.Deuterocanon},
		{"epjer", domain.Deuterocanon},
		{"ps151", domain.Deuterocanon},
	}

	for _, tt := range tests {
		t.Run(tt.dataName, func(t *testing.T) {
			canon, ok := tables.Classify(tt.dataName)
			if !ok {
				t.Fatalf("Classify(%q) not found", tt.dataName)
			}
			if canon != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.dataName, canon, tt.expected)
			}
		})
	}

	if _, ok := tables.Classify("nope"); ok {
		t.Error("Classify should miss on unknown data name")
	}
}

func TestAbbreviationsResolveToKnownBooks(t *testing.T) {
	tables := loadTables(t)
	for key := range tables.Abbreviations {
		if _, ok := tables.Classify(key); !ok {
			t.Errorf("abbreviation key %q has no canon entry", key)
		}
	}
}

func TestValidateSupport(t *testing.T) {
	full := &domain.Version{
		Abbreviation:         "FULL",
		SupportsOldTestament: true,
		SupportsNewTestament: true,
		SupportsDeuterocanon: true,
	}
	ntOnly := &domain.Version{
		Abbreviation:         "NT",
		SupportsNewTestament: true,
	}

	tests := []struct {
		name    string
		canon   domain.Canon
		version *domain.Version
		ok      bool
	}{
		{"ot in full version", domain.OldTestament, full, true},
		{"deu in full version", domain.Deuterocanon, full, true},
		{"nt in nt-only version", domain.NewTestament, ntOnly, true},
		{"ot in nt-only version", domain.OldTestament, ntOnly, false},
		{"deu in nt-only version", domain.Deuterocanon, ntOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := &domain.Reference{Book: "x", Canon: tt.canon}
			err := ValidateSupport(ref, tt.version)
			if tt.ok && err != nil {
				t.Errorf("ValidateSupport() = %v, want nil", err)
			}
			if !tt.ok {
				var mismatch *CanonMismatchError
				if !errors.As(err, &mismatch) {
					t.Fatalf("ValidateSupport() = %v, want CanonMismatchError", err)
				}
				if mismatch.Version != tt.version.Abbreviation {
					t.Errorf("mismatch.Version = %q, want %q", mismatch.Version, tt.version.Abbreviation)
				}
			}
		})
	}
}

func TestIsNuisance(t *testing.T) {
	tables := loadTables(t)
	if !tables.IsNuisance("the") {
		t.Error("expected 'the' to be a nuisance word")
	}
	if tables.IsNuisance("genesis") {
		t.Error("'genesis' must never be filtered")
	}
}
