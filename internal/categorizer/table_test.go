package categorizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "returnscli/internal/errors"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, []string{
		"Ethnic Wear", "Western Wear", "Beauty & Grooming",
		"Accessories", "Home & Living", "Electronics",
	}, table.Names())

	pos, ok := table.Position("Accessories")
	assert.True(t, ok)
	assert.Equal(t, 3, pos)

	_, ok = table.Position("Other")
	assert.False(t, ok)
}

func TestTable_CategoriesIsCopy(t *testing.T) {
	table := DefaultTable()
	cats := table.Categories()
	cats[0].Name = "Mutated"
	cats[0].Keywords[0] = "mutated"

	assert.Equal(t, "Ethnic Wear", table.Names()[0])
	assert.Equal(t, "saree", table.Categories()[0].Keywords[0])
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		wantErr    bool
	}{
		{"valid", []Category{{Name: "Toys", Keywords: []string{"doll"}}}, false},
		{"empty table", nil, true},
		{"missing name", []Category{{Keywords: []string{"doll"}}}, true},
		{"blank name", []Category{{Name: "  ", Keywords: []string{"doll"}}}, true},
		{"no keywords", []Category{{Name: "Toys"}}, true},
		{"empty keyword", []Category{{Name: "Toys", Keywords: []string{""}}}, true},
		{"blank keyword", []Category{{Name: "Toys", Keywords: []string{" "}}}, true},
		{"reserved name", []Category{{Name: "Other", Keywords: []string{"misc"}}}, true},
		{"duplicate name", []Category{
			{Name: "Toys", Keywords: []string{"doll"}},
			{Name: "Toys", Keywords: []string{"lego"}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.categories)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, table.Len())
		})
	}
}

func TestNewTable_NormalizesKeywords(t *testing.T) {
	table, err := NewTable([]Category{{Name: " Toys ", Keywords: []string{" Doll ", "LEGO"}}})
	require.NoError(t, err)

	cats := table.Categories()
	assert.Equal(t, "Toys", cats[0].Name)
	assert.Equal(t, []string{"doll", "lego"}, cats[0].Keywords)
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
		want     []string
	}{
		{
			name: "valid file",
			path: write("ok.yaml", `
categories:
  - name: Footwear
    keywords: [shoe, sandal, heel]
  - name: Ethnic Wear
    keywords: [saree]
`),
			want: []string{"Footwear", "Ethnic Wear"},
		},
		{
			name:     "malformed yaml",
			path:     write("bad.yaml", "categories: [\n"),
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name:     "unknown field",
			path:     write("strict.yaml", "categories:\n  - name: A\n    keyword: [a]\n"),
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name:     "invalid table",
			path:     write("empty.yaml", "categories: []\n"),
			wantType: apperrors.ErrTypeValidation,
		},
		{
			name:     "missing file",
			path:     filepath.Join(dir, "absent.yaml"),
			wantType: apperrors.ErrTypeStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadTable(tt.path)
			if tt.wantType != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantType), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Names())
		})
	}
}
