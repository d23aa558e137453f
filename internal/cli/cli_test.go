package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puran-water/flownote/internal/app"
)

func TestParsePositionalInput(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{"flow.txt"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "flow.txt", cfg.InputPath)
	assert.Equal(t, app.DirectionToModel, cfg.Direction)
}

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse([]string{
		"-in", "-",
		"-direction", "to-notation",
		"-templates", "tpl",
		"-canonical",
		"-log-format", "json",
		"-log-level", "debug",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "-", cfg.InputPath)
	assert.Equal(t, app.DirectionToNotation, cfg.Direction)
	assert.Equal(t, "tpl", cfg.TemplatesPath)
	assert.True(t, cfg.Canonical)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseNoInputPrintsUsage(t *testing.T) {
	var out bytes.Buffer

	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad log format", []string{"-log-format", "yaml", "in.txt"}},
		{"bad log level", []string{"-log-level", "loud", "in.txt"}},
		{"bad direction", []string{"-direction", "sideways", "in.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tt.args, &out)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
