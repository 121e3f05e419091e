package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Pending                                string
	Bullet, PendingMark                    string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
}

var current = Lookup("classic")

// Lookup returns the named theme; unknown names get the classic one.
func Lookup(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			Bullet: "◆", PendingMark: "◌",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		return Theme{
			Name:   "mono",
			Bullet: "-", PendingMark: "~",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
		}
	default:
		return Theme{
			Name:  "classic",
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			Bullet: "•", PendingMark: "…",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
		}
	}
}

func SetTheme(name string) {
	current = Lookup(name)
	if current.Name == "mono" {
		disableColor = true
	}
}

func Current() Theme { return current }
