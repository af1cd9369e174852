package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(abbr, source, aliasOf string) Entry {
	e := Entry{Abbreviation: abbr, Source: source, AliasOf: aliasOf}
	e.Supports.OT = true
	e.Supports.NT = true
	return e
}

func TestMapVersions(t *testing.T) {
	f := &File{Versions: []Entry{
		entry("RSV", "bg", ""),
		entry("KJV", "bg", ""),
		entry("AKJV", "", "KJV"),
	}}

	out, err := NewMapper().MapVersions(f)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "RSV", out[0].Abbreviation)
	assert.Equal(t, "bg", out[0].Source)
	assert.True(t, out[0].SupportsOldTestament)

	assert.Equal(t, "KJV", out[2].AliasOf)
	assert.Empty(t, out[2].Source)
}

func TestMapVersionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		file    *File
		wantErr string
	}{
		{
			name:    "nil file",
			file:    nil,
			wantErr: "no versions",
		},
		{
			name:    "empty list",
			file:    &File{},
			wantErr: "no versions",
		},
		{
			name:    "missing abbreviation",
			file:    &File{Versions: []Entry{entry("", "bg", "")}},
			wantErr: "missing abbreviation",
		},
		{
			name: "duplicate abbreviation",
			file: &File{Versions: []Entry{
				entry("RSV", "bg", ""),
				entry("RSV", "ab", ""),
			}},
			wantErr: "duplicate",
		},
		{
			name:    "alias with source",
			file:    &File{Versions: []Entry{entry("AKJV", "bg", "KJV")}},
			wantErr: "mutually exclusive",
		},
		{
			name:    "neither alias nor source",
			file:    &File{Versions: []Entry{entry("RSV", "", "")}},
			wantErr: "needs a source",
		},
		{
			name:    "dangling alias",
			file:    &File{Versions: []Entry{entry("AKJV", "", "KJV")}},
			wantErr: "does not exist",
		},
		{
			name: "alias of alias",
			file: &File{Versions: []Entry{
				entry("KJV", "bg", ""),
				entry("AKJV", "", "KJV"),
				entry("AAKJV", "", "AKJV"),
			}},
			wantErr: "itself an alias",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMapper().MapVersions(tt.file)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
