package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func visibleWidth(s string) int { return runewidth.StringWidth(stripANSI(s)) }

// Truncate shortens s to at most w cells, ending with an ellipsis when cut.
func Truncate(s string, w int) string {
	return runewidth.Truncate(s, w, "…")
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if w := visibleWidth(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(stdout, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(stdout, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(stdout, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
