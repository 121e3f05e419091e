package tui

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/idilsaglam/liste/internal/engine"
	"github.com/idilsaglam/liste/internal/gesture"
	"github.com/idilsaglam/liste/internal/model"
)

const title = "liste"

type span struct {
	from, to int // [from, to) in cells
	list     model.ID
}

func (m Model) itemsLeft() int {
	if m.sidebar {
		return m.sidebarCells() + 1
	}
	return 0
}

func (m Model) sidebarCells() int {
	return min(sidebarWidth, m.width/3)
}

func (m Model) itemsWidth() int {
	return max(m.width-m.itemsLeft(), 1)
}

func (m Model) footerRows() int {
	rows := 1 + lipgloss.Height(m.help.View(m.keys))
	if m.edit.kind != editNone {
		rows += 4
	}
	return rows
}

func (m Model) itemRows() int {
	return max(m.height-itemsTop-m.footerRows(), 1)
}

// tabSpans lays the list names out after the title on the first row.
func (m Model) tabSpans() []span {
	x := lipgloss.Width(title) + 1
	out := make([]span, 0, len(m.frame.Lists))
	for _, l := range m.frame.Lists {
		w := lipgloss.Width(m.styles.Tab.Render(l.Name))
		out = append(out, span{from: x, to: x + w, list: l.ID})
		x += w
	}
	return out
}

func (m Model) listAt(x, y int) (model.ID, bool) {
	if m.sidebar {
		i := y - itemsTop
		if x < m.sidebarCells() && i >= 0 && i < len(m.frame.Lists) {
			return m.frame.Lists[i].ID, true
		}
		return 0, false
	}
	if y != 0 {
		return 0, false
	}
	for _, s := range m.tabSpans() {
		if x >= s.from && x < s.to {
			return s.list, true
		}
	}
	return 0, false
}

func (m Model) itemAt(x, y int) (int, bool) {
	row := y - itemsTop
	if x < m.itemsLeft() || row < 0 || row >= m.itemRows() {
		return 0, false
	}
	l, ok := m.activeList()
	idx := m.scroll + row
	if !ok || idx >= len(l.Items) {
		return 0, false
	}
	return idx, true
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	b.WriteString(m.styles.Muted.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteByte('\n')

	body := m.items()
	if m.sidebar {
		side := m.styles.Sidebar.Width(m.sidebarCells()).Height(m.itemRows()).Render(m.sidebarView())
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, body)
	}
	b.WriteString(body)
	b.WriteByte('\n')

	if m.edit.kind != editNone {
		b.WriteString(m.editorView())
		b.WriteByte('\n')
	}
	b.WriteString(m.statusView())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title))
	b.WriteByte(' ')
	if !m.sidebar {
		for _, l := range m.frame.Lists {
			st := m.styles.Tab
			if l.ID == m.active {
				st = m.styles.TabOn
			}
			b.WriteString(st.Render(l.Name))
		}
	}
	if m.frame.Pending > 0 {
		b.WriteString(m.styles.Pending.Render(fmt.Sprintf("  ⟳ %d", m.frame.Pending)))
	}
	return b.String()
}

func (m Model) sidebarView() string {
	lines := make([]string, 0, len(m.frame.Lists))
	for _, l := range m.frame.Lists {
		name := runewidth.Truncate(l.Name, m.sidebarCells()-2, "…")
		if l.ID == m.active {
			lines = append(lines, m.styles.TabOn.UnsetPadding().Render("▸ "+name))
		} else {
			lines = append(lines, "  "+name)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) items() string {
	rows := m.itemRows()
	lines := make([]string, 0, rows)
	l, ok := m.activeList()
	switch {
	case m.frame.Loading && len(m.frame.Lists) == 0:
		lines = append(lines, m.styles.Muted.Render("Loading…"))
	case !ok:
		lines = append(lines, m.styles.Muted.Render("No lists yet. Press n to create one."))
	case len(l.Items) == 0:
		lines = append(lines, m.styles.Muted.Render("No items yet. Press a to add one."))
	default:
		end := min(m.scroll+rows, len(l.Items))
		for i := m.scroll; i < end; i++ {
			it := l.Items[i]
			vis := m.frame.Visual(engine.ViewKey{List: l.ID, Item: it.ID})
			lines = append(lines, m.itemLine(it, vis, i == m.cursor))
		}
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// itemLine renders one row, shifted by the swipe offset. A collapsed row
// stays as a blank line so rows keep mapping to item positions.
func (m Model) itemLine(it model.Item, vis gesture.Visual, selected bool) string {
	if vis.Collapsed {
		return ""
	}
	width := m.itemsWidth()
	mark := m.styles.Theme.Bullet
	if it.Pending() {
		mark = m.styles.Theme.PendingMark
	}
	text := mark + " " + it.Content

	shift := int(math.Round(vis.Offset / m.opts.CellWidth))
	switch {
	case shift > 0:
		text = strings.Repeat(" ", shift) + text
	case shift < 0:
		text = runewidth.TruncateLeft(text, -shift, "")
	}
	text = runewidth.Truncate(text, width, "…")

	st := m.styles.Item
	switch {
	case vis.Opacity < 0.5:
		st = m.styles.Muted
	case it.Pending():
		st = m.styles.Pending
	case selected && vis.Offset == 0:
		st = m.styles.Selected
	}
	return st.Render(text)
}

func (m Model) editorView() string {
	var heading string
	switch m.edit.kind {
	case editAddItem:
		heading = "Add item"
	case editItem:
		heading = "Edit item"
	case editNewList:
		heading = "New list"
	case editRenameList:
		heading = "Rename list"
	}
	if m.edit.err != "" {
		heading += ": " + m.styles.Error.Render(m.edit.err)
	}
	return m.styles.Border.Width(max(m.width-4, 10)).Render(heading + "\n" + m.edit.input.View())
}

func (m Model) statusView() string {
	if m.status.text == "" {
		return ""
	}
	switch {
	case m.status.level >= slog.LevelError:
		return m.styles.Error.Render(m.status.text)
	case m.status.level >= slog.LevelWarn:
		return m.styles.Warn.Render(m.status.text)
	}
	return m.styles.Muted.Render(m.status.text)
}
