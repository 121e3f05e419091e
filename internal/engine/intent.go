package engine

import (
	"log/slog"

	"github.com/idilsaglam/liste/internal/gesture"
	"github.com/idilsaglam/liste/internal/model"
)

// Intent is a user action coming from the UI layer.
type Intent interface{ isIntent() }

// CreateList asks the service for a new list. Lists only appear once the
// service confirmed them.
type CreateList struct{ Name string }

type RenameList struct {
	List model.ID
	Name string
}

type RemoveList struct{ List model.ID }

// AddItem is the editor confirmation for a new item.
type AddItem struct {
	List    model.ID
	Content string
}

// EditItem is the editor confirmation for an existing item, addressed by the
// position it had when the editor opened.
type EditItem struct {
	List    model.ID
	Index   int
	Content string
}

// RemoveItem removes the item at a position without a swipe animation.
type RemoveItem struct {
	List  model.ID
	Index int
}

// Resize reports the new viewport geometry in touch units.
type Resize struct {
	Width      float64
	ItemHeight float64
}

// Reload discards the view and fetches everything again from the service.
type Reload struct{}

func (CreateList) isIntent() {}
func (RenameList) isIntent() {}
func (RemoveList) isIntent() {}
func (AddItem) isIntent()    {}
func (EditItem) isIntent()   {}
func (RemoveItem) isIntent() {}
func (Resize) isIntent()     {}
func (Reload) isIntent()     {}

// TouchKind is the lifecycle stage of a touch event.
type TouchKind uint8

const (
	TouchStart TouchKind = iota
	TouchMove
	TouchEnd
	TouchCancel
)

// TouchInput is one touch lifecycle event. List and Index name the item view
// under the touch; they are only read for TouchStart, later stages are routed
// by touch id.
type TouchInput struct {
	Kind    TouchKind
	List    model.ID
	Index   int
	Touches []gesture.Touch
}

// Effect is a one-shot instruction for the UI.
type Effect interface{ isEffect() }

// OpenEditor is emitted when an item was tapped.
type OpenEditor struct {
	List  model.ID
	Index int
	Item  model.Item
}

// ListCreated is emitted when a list this client asked for was confirmed.
type ListCreated struct{ List model.List }

// Notice is a short message for the status line.
type Notice struct {
	Level slog.Level
	Text  string
}

func (OpenEditor) isEffect()  {}
func (ListCreated) isEffect() {}
func (Notice) isEffect()      {}

// ViewKey identifies an item view. A pending item uses model.Placeholder.
type ViewKey struct {
	List model.ID
	Item model.ID
}

// Frame is a render snapshot.
type Frame struct {
	Seq     uint64
	Lists   []model.List
	Visuals map[ViewKey]gesture.Visual // item views not at rest
	Loading bool
	Pending int // remote calls in flight
}

// Visual returns the visual of an item view, neutral when not animating.
func (f Frame) Visual(k ViewKey) gesture.Visual {
	if v, ok := f.Visuals[k]; ok {
		return v
	}
	return gesture.Neutral()
}
