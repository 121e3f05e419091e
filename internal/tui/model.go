// Package tui is the interactive terminal front end. The mouse stands in for
// a finger: a left-button press, drag and release on an item row become the
// touch start, move and end the engine recognizes taps and swipes from.
package tui

import (
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/liste/internal/engine"
	"github.com/idilsaglam/liste/internal/gesture"
	"github.com/idilsaglam/liste/internal/model"
	"github.com/idilsaglam/liste/internal/ui"
)

// Engine is the part of *engine.Engine the view talks to.
type Engine interface {
	Intents() chan<- engine.Intent
	Touches() chan<- engine.TouchInput
	Frames() <-chan engine.Frame
	Effects() <-chan engine.Effect
}

type Options struct {
	Theme string
	// CellWidth and CellHeight convert terminal cells to touch units.
	CellWidth  float64
	CellHeight float64
	// Themes delivers theme names while the program runs.
	Themes    <-chan string
	Clipboard func(string) error
	Log       *slog.Logger
}

const (
	itemsTop     = 2
	sidebarWidth = 20
)

type editKind uint8

const (
	editNone editKind = iota
	editAddItem
	editItem
	editNewList
	editRenameList
)

type editor struct {
	kind  editKind
	list  model.ID
	index int
	input textinput.Model
	err   string
}

type status struct {
	level slog.Level
	text  string
}

type (
	frameMsg  engine.Frame
	effectMsg struct{ engine.Effect }
	themeMsg  string
)

// Model implements tea.Model on top of an engine.
type Model struct {
	eng    Engine
	opts   Options
	log    *slog.Logger
	keys   keyMap
	help   help.Model
	styles ui.Styles

	frame  engine.Frame
	active model.ID
	cursor int
	scroll int

	sidebar       bool
	width, height int

	edit   editor
	status status

	// the drag in progress, if any
	dragging  bool
	touchID   int64
	touchList model.ID
}

func New(eng Engine, opts Options) Model {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	return Model{
		eng:    eng,
		opts:   opts,
		log:    log.With("component", "tui"),
		keys:   defaultKeys(),
		help:   help.New(),
		styles: ui.NewStyles(opts.Theme),
		edit:   editor{input: ti},
		width:  80,
		height: 24,
		frame:  engine.Frame{Loading: true},
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitFrame(m.eng.Frames()), waitEffect(m.eng.Effects())}
	if m.opts.Themes != nil {
		cmds = append(cmds, waitTheme(m.opts.Themes))
	}
	return tea.Batch(cmds...)
}

func waitFrame(ch <-chan engine.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return frameMsg(f)
	}
}

func waitEffect(ch <-chan engine.Effect) tea.Cmd {
	return func() tea.Msg {
		eff, ok := <-ch
		if !ok {
			return nil
		}
		return effectMsg{eff}
	}
}

func waitTheme(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		name, ok := <-ch
		if !ok {
			return nil
		}
		return themeMsg(name)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = engine.Frame(msg)
		m.fixSelection()
		return m, waitFrame(m.eng.Frames())

	case effectMsg:
		cmd := m.handleEffect(msg.Effect)
		return m, tea.Batch(cmd, waitEffect(m.eng.Effects()))

	case themeMsg:
		m.styles = ui.NewStyles(string(msg))
		m.setStatus(slog.LevelInfo, "theme: "+m.styles.Theme.Name)
		return m, waitTheme(m.opts.Themes)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.BlurMsg:
		m.cancelTouch()
		return m, nil

	case tea.MouseMsg:
		if m.edit.kind != editNone {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.edit.kind != editNone {
			return m.updateEditor(msg)
		}
		return m.handleKey(msg)
	}

	if m.edit.kind != editNone {
		var cmd tea.Cmd
		m.edit.input, cmd = m.edit.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		if m.dragging {
			m.cancelTouch()
			return *m, nil
		}
		return *m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return *m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.NextList):
		m.cycleList(1)
	case key.Matches(msg, m.keys.PrevList):
		m.cycleList(-1)
	case key.Matches(msg, m.keys.Sidebar):
		m.sidebar = !m.sidebar
		m.resize()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reload):
		m.send(engine.Reload{})
		m.setStatus(slog.LevelInfo, "reloading…")
	case key.Matches(msg, m.keys.NewList):
		return *m, m.openEditor(editNewList, 0, 0, "")
	}

	l, ok := m.activeList()
	if !ok {
		return *m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Add):
		return *m, m.openEditor(editAddItem, l.ID, len(l.Items), "")
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.selected(); ok {
			return *m, m.openEditor(editItem, l.ID, m.cursor, it.Content)
		}
	case key.Matches(msg, m.keys.Del):
		if _, ok := m.selected(); ok {
			m.send(engine.RemoveItem{List: l.ID, Index: m.cursor})
		}
	case key.Matches(msg, m.keys.Copy):
		if it, ok := m.selected(); ok {
			if err := m.opts.Clipboard(it.Content); err != nil {
				m.log.Warn("copy to clipboard", "err", err)
				m.setStatus(slog.LevelWarn, "copy failed: "+err.Error())
			} else {
				m.setStatus(slog.LevelInfo, "copied")
			}
		}
	case key.Matches(msg, m.keys.RenameList):
		return *m, m.openEditor(editRenameList, l.ID, 0, l.Name)
	case key.Matches(msg, m.keys.RemoveList):
		m.send(engine.RemoveList{List: l.ID})
		m.setStatus(slog.LevelInfo, "removed "+l.Name)
	}
	return *m, nil
}

func (m *Model) handleEffect(eff engine.Effect) tea.Cmd {
	switch eff := eff.(type) {
	case engine.OpenEditor:
		m.active = eff.List
		m.cursor = eff.Index
		m.ensureVisible()
		return m.openEditor(editItem, eff.List, eff.Index, eff.Item.Content)
	case engine.ListCreated:
		m.active = eff.List.ID
		m.cursor, m.scroll = 0, 0
		m.setStatus(slog.LevelInfo, "created "+eff.List.Name)
	case engine.Notice:
		m.setStatus(eff.Level, eff.Text)
	}
	return nil
}

func (m *Model) openEditor(kind editKind, list model.ID, index int, value string) tea.Cmd {
	m.cancelTouch()
	m.edit.kind = kind
	m.edit.list = list
	m.edit.index = index
	m.edit.err = ""
	switch kind {
	case editAddItem:
		m.edit.input.Placeholder = "New item…"
	case editItem:
		m.edit.input.Placeholder = "Item text…"
	default:
		m.edit.input.Placeholder = "List name…"
	}
	m.edit.input.SetValue(value)
	m.edit.input.CursorEnd()
	return m.edit.input.Focus()
}

func (m *Model) closeEditor() {
	m.edit.kind = editNone
	m.edit.input.SetValue("")
	m.edit.input.Blur()
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.edit.input.Value())
		if text == "" {
			m.edit.err = "cannot be empty"
			return m, nil
		}
		switch m.edit.kind {
		case editAddItem:
			m.send(engine.AddItem{List: m.edit.list, Content: text})
			if l, ok := m.activeList(); ok && l.ID == m.edit.list {
				m.cursor = len(l.Items)
				m.ensureVisible()
			}
		case editItem:
			m.send(engine.EditItem{List: m.edit.list, Index: m.edit.index, Content: text})
		case editNewList:
			m.send(engine.CreateList{Name: text})
		case editRenameList:
			m.send(engine.RenameList{List: m.edit.list, Name: text})
		}
		m.closeEditor()
		return m, nil
	}
	var cmd tea.Cmd
	m.edit.input, cmd = m.edit.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
		case tea.MouseButtonLeft:
			// a press while a drag is open means we never saw its release
			m.cancelTouch()
			if id, ok := m.listAt(msg.X, msg.Y); ok {
				m.selectList(id)
				return
			}
			idx, ok := m.itemAt(msg.X, msg.Y)
			if !ok {
				return
			}
			l, _ := m.activeList()
			m.cursor = idx
			m.touchID++
			m.dragging = true
			m.touchList = l.ID
			m.sendTouch(engine.TouchInput{Kind: engine.TouchStart, List: l.ID, Index: idx, Touches: m.touches(msg)})
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.sendTouch(engine.TouchInput{Kind: engine.TouchMove, List: m.touchList, Touches: m.touches(msg)})
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.sendTouch(engine.TouchInput{Kind: engine.TouchEnd, List: m.touchList, Touches: m.touches(msg)})
		}
	}
}

func (m Model) touches(msg tea.MouseMsg) []gesture.Touch {
	return []gesture.Touch{{ID: m.touchID, Pos: m.point(msg.X, msg.Y)}}
}

// point converts a cell position to touch units relative to the item column.
func (m Model) point(x, y int) gesture.Point {
	return gesture.Point{
		X: float64(x-m.itemsLeft()) * m.opts.CellWidth,
		Y: float64(y) * m.opts.CellHeight,
	}
}

func (m *Model) cancelTouch() {
	if !m.dragging {
		return
	}
	m.dragging = false
	m.sendTouch(engine.TouchInput{
		Kind:    engine.TouchCancel,
		List:    m.touchList,
		Touches: []gesture.Touch{{ID: m.touchID}},
	})
}

func (m Model) send(in engine.Intent) { m.eng.Intents() <- in }

func (m Model) sendTouch(in engine.TouchInput) { m.eng.Touches() <- in }

func (m *Model) resize() {
	m.send(engine.Resize{
		Width:      float64(m.itemsWidth()) * m.opts.CellWidth,
		ItemHeight: m.opts.CellHeight,
	})
}

func (m *Model) setStatus(level slog.Level, text string) {
	m.status = status{level: level, text: text}
}

func (m Model) activeList() (model.List, bool) {
	for _, l := range m.frame.Lists {
		if l.ID == m.active {
			return l, true
		}
	}
	return model.List{}, false
}

func (m Model) selected() (model.Item, bool) {
	l, ok := m.activeList()
	if !ok || m.cursor < 0 || m.cursor >= len(l.Items) {
		return model.Item{}, false
	}
	return l.Items[m.cursor], true
}

// fixSelection keeps the active list and the cursor valid after a frame.
func (m *Model) fixSelection() {
	if _, ok := m.activeList(); !ok {
		m.active = 0
		m.cursor, m.scroll = 0, 0
		if len(m.frame.Lists) > 0 {
			m.active = m.frame.Lists[0].ID
		}
	}
	l, _ := m.activeList()
	if m.cursor >= len(l.Items) {
		m.cursor = len(l.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) selectList(id model.ID) {
	if id == m.active {
		return
	}
	m.active = id
	m.cursor, m.scroll = 0, 0
}

func (m *Model) cycleList(step int) {
	n := len(m.frame.Lists)
	if n == 0 {
		return
	}
	i := 0
	for j, l := range m.frame.Lists {
		if l.ID == m.active {
			i = j
		}
	}
	m.selectList(m.frame.Lists[((i+step)%n+n)%n].ID)
}

func (m *Model) moveCursor(step int) {
	l, _ := m.activeList()
	m.cursor += step
	if m.cursor >= len(l.Items) {
		m.cursor = len(l.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	rows := m.itemRows()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+rows {
		m.scroll = m.cursor - rows + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}
