package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "returnscli/internal/errors"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("a,b\n1,2\n"), 0644))
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr apperrors.ErrorType
	}{
		{name: "csv", path: write("forward.csv")},
		{name: "upper case xlsx", path: write("orders.XLSX")},
		{name: "tsv", path: write("orders.tsv")},
		{name: "missing", path: filepath.Join(dir, "absent.csv"), wantErr: apperrors.ErrTypeNotFound},
		{name: "directory", path: dir, wantErr: apperrors.ErrTypeValidation},
		{name: "lock file", path: write("~$orders.xlsx"), wantErr: apperrors.ErrTypeValidation},
		{name: "unsupported", path: write("orders.pdf"), wantErr: apperrors.ErrTypeValidation},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInputFile(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantErr), err.Error())
		})
	}
}

func TestValidateInputs_FirstFailureWins(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.csv")
	require.NoError(t, os.WriteFile(ok, []byte("a\n"), 0644))

	v := NewFileValidator(nil)
	assert.NoError(t, v.ValidateInputs(ok, ok))

	err := v.ValidateInputs(ok, filepath.Join(dir, "missing.csv"), dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	v := NewFileValidator(nil)

	require.NoError(t, v.ValidateOutputDirectory(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	err = v.ValidateOutputDirectory(filepath.Join(file, "sub"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
