package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/liste/internal/engine"
	"github.com/idilsaglam/liste/internal/gesture"
	"github.com/idilsaglam/liste/internal/model"
)

type fakeEngine struct {
	intents chan engine.Intent
	touches chan engine.TouchInput
	frames  chan engine.Frame
	effects chan engine.Effect
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		intents: make(chan engine.Intent, 16),
		touches: make(chan engine.TouchInput, 16),
		frames:  make(chan engine.Frame, 1),
		effects: make(chan engine.Effect, 4),
	}
}

func (f *fakeEngine) Intents() chan<- engine.Intent     { return f.intents }
func (f *fakeEngine) Touches() chan<- engine.TouchInput { return f.touches }
func (f *fakeEngine) Frames() <-chan engine.Frame       { return f.frames }
func (f *fakeEngine) Effects() <-chan engine.Effect     { return f.effects }

func (f *fakeEngine) intent(t *testing.T) engine.Intent {
	t.Helper()
	select {
	case in := <-f.intents:
		return in
	default:
		t.Fatal("no intent sent")
		return nil
	}
}

func (f *fakeEngine) touch(t *testing.T) engine.TouchInput {
	t.Helper()
	select {
	case in := <-f.touches:
		return in
	default:
		t.Fatal("no touch sent")
		return engine.TouchInput{}
	}
}

func (f *fakeEngine) quiet(t *testing.T) {
	t.Helper()
	assert.Empty(t, f.intents)
	assert.Empty(t, f.touches)
}

var lists = []model.List{
	{ID: 1, Name: "Courses", Items: []model.Item{
		{ID: 1, ListID: 1, Content: "eggs"},
		{ID: 2, ListID: 1, Content: "milk"},
	}},
	{ID: 2, Name: "Maison"},
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// setup returns a model sized 80x24 showing lists, with the resize intent
// already drained.
func setup(t *testing.T, opts Options) (Model, *fakeEngine) {
	t.Helper()
	eng := newFakeEngine()
	if opts.Theme == "" {
		opts.Theme = "mono"
	}
	m := New(eng, opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, engine.Resize{Width: 640, ItemHeight: 16}, eng.intent(t))
	m = update(t, m, frameMsg(engine.Frame{Seq: 1, Lists: lists}))
	return m, eng
}

func TestFrameSelectsFirstList(t *testing.T) {
	m, eng := setup(t, Options{})
	assert.Equal(t, model.ID(1), m.active)

	v := m.View()
	assert.Contains(t, v, "Courses")
	assert.Contains(t, v, "Maison")
	assert.Contains(t, v, "- eggs")
	eng.quiet(t)

	// the active list disappears
	m = update(t, m, frameMsg(engine.Frame{Seq: 2, Lists: lists[1:]}))
	assert.Equal(t, model.ID(2), m.active)
	assert.Contains(t, m.View(), "No items yet")
}

func TestDragBecomesTouchLifecycle(t *testing.T) {
	m, eng := setup(t, Options{})

	m = update(t, m, tea.MouseMsg{X: 3, Y: itemsTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	start := eng.touch(t)
	assert.Equal(t, engine.TouchStart, start.Kind)
	assert.Equal(t, model.ID(1), start.List)
	assert.Equal(t, 1, start.Index)
	assert.Equal(t, []gesture.Touch{{ID: 1, Pos: gesture.Point{X: 24, Y: 48}}}, start.Touches)
	assert.Equal(t, 1, m.cursor)

	m = update(t, m, tea.MouseMsg{X: 20, Y: itemsTop + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	move := eng.touch(t)
	assert.Equal(t, engine.TouchMove, move.Kind)
	assert.Equal(t, 160.0, move.Touches[0].Pos.X)

	m = update(t, m, tea.MouseMsg{X: 40, Y: itemsTop + 1, Action: tea.MouseActionRelease})
	end := eng.touch(t)
	assert.Equal(t, engine.TouchEnd, end.Kind)
	assert.Equal(t, int64(1), end.Touches[0].ID)

	// motion without a press is not a touch
	update(t, m, tea.MouseMsg{X: 30, Y: itemsTop, Action: tea.MouseActionMotion})
	eng.quiet(t)
}

func TestPressWithoutReleaseCancelsFirst(t *testing.T) {
	m, eng := setup(t, Options{})
	m = update(t, m, tea.MouseMsg{X: 3, Y: itemsTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	eng.touch(t)
	m = update(t, m, tea.MouseMsg{X: 3, Y: itemsTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	cancel := eng.touch(t)
	assert.Equal(t, engine.TouchCancel, cancel.Kind)
	assert.Equal(t, int64(1), cancel.Touches[0].ID)
	start := eng.touch(t)
	assert.Equal(t, engine.TouchStart, start.Kind)
	assert.Equal(t, int64(2), start.Touches[0].ID)

	update(t, m, tea.BlurMsg{})
	assert.Equal(t, engine.TouchCancel, eng.touch(t).Kind)
}

func TestEscCancelsDrag(t *testing.T) {
	m, eng := setup(t, Options{})
	m = update(t, m, tea.MouseMsg{X: 3, Y: itemsTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	eng.touch(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, engine.TouchCancel, eng.touch(t).Kind)
	assert.False(t, next.(Model).dragging)
}

func TestPressOutsideItemsIsIgnored(t *testing.T) {
	m, eng := setup(t, Options{})
	update(t, m, tea.MouseMsg{X: 3, Y: itemsTop + 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	eng.quiet(t)
}

func TestClickingTabSwitchesList(t *testing.T) {
	m, eng := setup(t, Options{})
	spans := m.tabSpans()
	require.Len(t, spans, 2)

	m = update(t, m, tea.MouseMsg{X: spans[1].from, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, model.ID(2), m.active)
	eng.quiet(t)

	m = update(t, m, runes("s"))
	assert.True(t, m.sidebar)
	assert.Equal(t, engine.Resize{Width: float64(80-m.itemsLeft()) * 8, ItemHeight: 16}, eng.intent(t))
	m = update(t, m, tea.MouseMsg{X: 1, Y: itemsTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, model.ID(1), m.active)
}

func TestKeysSendIntents(t *testing.T) {
	m, eng := setup(t, Options{})

	m = update(t, m, runes("j"))
	m = update(t, m, runes("d"))
	assert.Equal(t, engine.RemoveItem{List: 1, Index: 1}, eng.intent(t))

	m = update(t, m, runes("R"))
	assert.Equal(t, engine.Reload{}, eng.intent(t))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.ID(2), m.active)
	update(t, m, runes("D"))
	assert.Equal(t, engine.RemoveList{List: 2}, eng.intent(t))
}

func TestAddItemEditor(t *testing.T) {
	m, eng := setup(t, Options{})

	m = update(t, m, runes("a"))
	require.Equal(t, editAddItem, m.edit.kind)
	assert.Contains(t, m.View(), "Add item")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "cannot be empty", m.edit.err)
	eng.quiet(t)

	m = update(t, m, runes("bread"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, engine.AddItem{List: 1, Content: "bread"}, eng.intent(t))
	assert.Equal(t, editNone, m.edit.kind)
	assert.Equal(t, 2, m.cursor)
}

func TestTapEffectOpensEditor(t *testing.T) {
	m, eng := setup(t, Options{})

	m = update(t, m, effectMsg{engine.OpenEditor{List: 1, Index: 1, Item: lists[0].Items[1]}})
	require.Equal(t, editItem, m.edit.kind)
	assert.Equal(t, "milk", m.edit.input.Value())

	// the editor swallows the mouse
	m = update(t, m, tea.MouseMsg{X: 3, Y: itemsTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	eng.quiet(t)

	m = update(t, m, runes("!"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, engine.EditItem{List: 1, Index: 1, Content: "milk!"}, eng.intent(t))

	m = update(t, m, runes("r"))
	require.Equal(t, editRenameList, m.edit.kind)
	update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	eng.quiet(t)
}

func TestListCreatedEffectSelectsList(t *testing.T) {
	m, eng := setup(t, Options{})
	m = update(t, m, runes("n"))
	m = update(t, m, runes("Jardin"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, engine.CreateList{Name: "Jardin"}, eng.intent(t))

	created := model.List{ID: 3, Name: "Jardin"}
	m = update(t, m, effectMsg{engine.ListCreated{List: created}})
	m = update(t, m, frameMsg(engine.Frame{Seq: 2, Lists: append(append([]model.List{}, lists...), created)}))
	assert.Equal(t, model.ID(3), m.active)
	assert.Contains(t, m.View(), "created Jardin")
}

func TestNoticeAndTheme(t *testing.T) {
	m, _ := setup(t, Options{})
	m = update(t, m, effectMsg{engine.Notice{Text: "could not reach the server"}})
	assert.Contains(t, m.View(), "could not reach the server")

	m = update(t, m, themeMsg("neon"))
	assert.Equal(t, "neon", m.styles.Theme.Name)
}

func TestCopySelectedItem(t *testing.T) {
	var copied string
	m, _ := setup(t, Options{Clipboard: func(s string) error { copied = s; return nil }})
	m = update(t, m, runes("y"))
	assert.Equal(t, "eggs", copied)
	assert.Equal(t, "copied", m.status.text)
}

func TestItemLineFollowsVisual(t *testing.T) {
	m, _ := setup(t, Options{})
	eggs := lists[0].Items[0]

	assert.Equal(t, "  - eggs", m.itemLine(eggs, gesture.Visual{Offset: 16, Opacity: 1}, false))
	assert.Equal(t, "eggs", m.itemLine(eggs, gesture.Visual{Offset: -16, Opacity: 1}, false))
	assert.Equal(t, "", m.itemLine(eggs, gesture.Visual{Collapsed: true}, false))
	assert.Equal(t, "~ milk", m.itemLine(model.Item{ListID: 1, Content: "milk"}, gesture.Neutral(), false))
}
