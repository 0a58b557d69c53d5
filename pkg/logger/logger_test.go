package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("domain", "example.com").Msg("classified")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "example.com", entry["domain"])
	assert.Equal(t, "classified", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "debug", Format: FormatConsole, Output: &buf})
	require.NoError(t, err)

	l.Debug().Msg("resolving")
	assert.Contains(t, buf.String(), "resolving")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "triage.log")

	cfg := DefaultConfig()
	cfg.Format = FormatJSON
	cfg.File = path
	cfg.Output = &bytes.Buffer{}

	l, err := New(cfg)
	require.NoError(t, err)
	l.Warn().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"empty level", Config{Format: FormatJSON}},
		{"unknown level", Config{Level: "loud", Format: FormatJSON}},
		{"unknown format", Config{Level: "info", Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			assert.Error(t, err)
		})
	}
}
