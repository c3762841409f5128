package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "returnscli/internal/errors"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoader_Delimited(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		body        string
		wantColumns []string
		wantRows    int
		check       func(*testing.T, []map[string]string)
	}{
		{
			name:        "csv with bom and blank rows",
			file:        "forward.csv",
			body:        "\uFEFFsub_order_num,order_status, meesho_price \n101,Return,400\n\n102,Delivered,1200\n",
			wantColumns: []string{"sub_order_num", "order_status", "meesho_price"},
			wantRows:    2,
			check: func(t *testing.T, rows []map[string]string) {
				assert.Equal(t, "101", rows[0]["sub_order_num"])
				assert.Equal(t, "1200", rows[1]["meesho_price"])
			},
		},
		{
			name:        "tsv by extension",
			file:        "orders.tsv",
			body:        "Sub Order No\tProduct Name\n101\tSilk, Saree\n",
			wantColumns: []string{"Sub Order No", "Product Name"},
			wantRows:    1,
			check: func(t *testing.T, rows []map[string]string) {
				assert.Equal(t, "Silk, Saree", rows[0]["Product Name"])
			},
		},
		{
			name:        "semicolon sniffed",
			file:        "orders.csv",
			body:        "id;name;price\n1;a;2\n",
			wantColumns: []string{"id", "name", "price"},
			wantRows:    1,
		},
		{
			name:        "duplicate headers and ragged rows",
			file:        "dup.csv",
			body:        "id,name,name\n1,a\n2,b,c,extra\n",
			wantColumns: []string{"id", "name", "name.1"},
			wantRows:    2,
			check: func(t *testing.T, rows []map[string]string) {
				assert.Equal(t, "", rows[0]["name.1"])
				assert.Equal(t, "c", rows[1]["name.1"])
				assert.Len(t, rows[1], 3)
			},
		},
		{
			name:        "quoted fields",
			file:        "quoted.csv",
			body:        "id,name\n1,\"Kurta, Set \"\"Blue\"\"\"\n",
			wantColumns: []string{"id", "name"},
			wantRows:    1,
			check: func(t *testing.T, rows []map[string]string) {
				assert.Equal(t, `Kurta, Set "Blue"`, rows[0]["name"])
			},
		},
	}

	loader := NewLoader(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := loader.Load(context.Background(), writeFile(t, tt.file, tt.body), LoadOptions{})
			require.NoError(t, err)

			assert.Equal(t, tt.wantColumns, table.Columns)
			require.Equal(t, tt.wantRows, table.Len())
			if tt.check != nil {
				rows := make([]map[string]string, len(table.Rows))
				for i, r := range table.Rows {
					rows[i] = r
				}
				tt.check(t, rows)
			}
		})
	}
}

func TestLoader_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Orders"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Sub Order No", "Product Name", "meesho_price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"101", "Silk Saree", 400}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"102", "Denim Jeans", 1200.5}))

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewLoader(nil).Load(context.Background(), path, LoadOptions{Sheet: sheet})
	require.NoError(t, err)

	assert.Equal(t, "orders", table.Name)
	assert.Equal(t, []string{"Sub Order No", "Product Name", "meesho_price"}, table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Silk Saree", table.Rows[0].Get("Product Name"))
	assert.Equal(t, "400", table.Rows[0].Get("meesho_price"))
	assert.Equal(t, "1200.5", table.Rows[1].Get("meesho_price"))

	_, err = NewLoader(nil).Load(context.Background(), path, LoadOptions{Sheet: "Missing"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestLoader_Errors(t *testing.T) {
	loader := NewLoader(nil)
	ctx := context.Background()

	_, err := loader.Load(ctx, filepath.Join(t.TempDir(), "absent.csv"), LoadOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = loader.Load(ctx, writeFile(t, "empty.csv", "\n\n"), LoadOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

	_, err = loader.Load(ctx, writeFile(t, "broken.xlsx", "not a zip"), LoadOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}
