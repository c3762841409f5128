package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "returnscli/internal/errors"
)

func TestSetup_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()

	a, err := setup([]string{"-reports", dir, "-addr", "127.0.0.1:0"}, io.Discard)
	require.NoError(t, err)
	defer a.OTelProviders.Shutdown(context.Background())

	assert.Equal(t, dir, a.Paths.ReportsDir)
	assert.Equal(t, "127.0.0.1:0", a.Server.Addr)
	assert.False(t, a.Reports.Available())
}

func TestSetup_Errors(t *testing.T) {
	_, err := setup([]string{"-bogus"}, io.Discard)
	assert.Error(t, err)

	_, err = setup([]string{"-config", "does-not-exist.yaml"}, io.Discard)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
