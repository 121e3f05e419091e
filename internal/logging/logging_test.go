package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONToStderr(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Format: "json", Service: "liste", Stderr: &buf})
	require.NoError(t, err)
	defer l.Close()

	l.Info("hidden")
	l.Warn("shown", "list", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "liste", rec["service"])
	assert.Equal(t, 3.0, rec["list"])
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "liste.log")
	var stderr bytes.Buffer
	l, err := New(Config{File: path, Stderr: &stderr})
	require.NoError(t, err)
	l.Info("to the file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=\"to the file\"")
	assert.Empty(t, stderr.String())
}

func TestRejectsUnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.Error(t, err)
}
