package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelPadsToWidestLine(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out, nil)
	defer SetOutput(nil, nil)
	SetTheme("classic")

	Panel([]string{C(fgGreen, "Courses"), "é"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "┌─────────┐", lines[0])
	assert.Equal(t, "│ é       │", lines[2])
}

func TestColorOnlyOnTerminal(t *testing.T) {
	var out bytes.Buffer
	SetOutput(&out, nil)
	defer SetOutput(nil, nil)
	defer SetColorForcing(false, false)

	SetColorForcing(false, false)
	assert.Equal(t, "x", C(fgRed, "x"))
	SetColorForcing(true, false)
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))
	SetColorForcing(true, true)
	assert.Equal(t, "x", C(fgRed, "x"))
}

func TestLookupFallsBackToClassic(t *testing.T) {
	assert.Equal(t, "classic", Lookup("plaid").Name)
	assert.Equal(t, "neon", NewStyles("NEON").Theme.Name)
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
}
