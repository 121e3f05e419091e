// Package gesture turns the touch lifecycle of a single item view into taps
// and swipe-to-delete gestures.
//
// A Recognizer is owned by exactly one item view and is not safe for
// concurrent use. It never starts timers itself: after each call the owner
// asks Wake what the recognizer waits for (the next frame or a fixed delay)
// and reports it back through Frame and Elapsed.
package gesture

import (
	"math"
	"time"
)

// Point is a position in distance units of the touch surface.
type Point struct{ X, Y float64 }

// Touch is one contact point. ID stays stable for the life of the contact.
type Touch struct {
	ID  int64
	Pos Point
}

// Axis is the direction a gesture committed to.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	}
	return "none"
}

// Direction is the side a committed swipe leaves towards.
type Direction int8

const (
	Left  Direction = -1
	Right Direction = 1
)

// Swipe is the swipe part of a gesture outcome.
type Swipe uint8

const (
	SwipeNone Swipe = iota
	SwipeCommitted
	SwipeCancelled
)

// Outcome is what a finished gesture produced. Tap and SwipeCancelled can be
// reported together: a swipe too short to leave the tap radius is still a tap.
type Outcome struct {
	Tap       bool
	Swipe     Swipe
	Direction Direction
}

// Empty reports whether the gesture produced nothing.
func (o Outcome) Empty() bool { return !o.Tap && o.Swipe == SwipeNone }

// Phase is the state of the recognizer.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseTracking
	PhaseSnapBack
	PhaseFreeze
	PhaseCollapse
	PhaseSettle
)

func (p Phase) String() string {
	return [...]string{"idle", "tracking", "snap-back", "freeze", "collapse", "settle"}[p]
}

// Signal is reported when an animation step completes.
type Signal uint8

const (
	SignalNone Signal = iota
	// SignalReady: the snap-back finished and a new gesture may start.
	SignalReady
	// SignalRemoved: the exit animation settled; the caller removes the item.
	SignalRemoved
)

// Wake tells the owner what the recognizer is waiting for.
type Wake struct {
	Frame bool
	After time.Duration
}

// None reports whether nothing needs to be scheduled.
func (w Wake) None() bool { return !w.Frame && w.After == 0 }

// Config holds the thresholds. Distances are in touch-surface units.
type Config struct {
	LockThreshold float64
	TapThreshold  float64
	CommitRatio   float64
	SnapBack      time.Duration
	Settle        time.Duration
}

func DefaultConfig() Config {
	return Config{
		LockThreshold: 2,
		TapThreshold:  10,
		CommitRatio:   0.3,
		SnapBack:      100 * time.Millisecond,
		Settle:        100 * time.Millisecond,
	}
}

// Visual is the rendering state of the item view.
type Visual struct {
	Offset     float64
	Opacity    float64
	Height     float64 // pinned height, meaningful when Frozen
	Frozen     bool
	Collapsed  bool
	Exit       Direction
	Transition time.Duration
}

// Neutral is the resting visual of an item.
func Neutral() Visual { return Visual{Opacity: 1} }

// Recognizer is the per-item touch state machine.
type Recognizer struct {
	cfg    Config
	width  float64
	height float64

	phase    Phase
	touch    int64
	start    Point
	last     Point
	traveled float64
	axis     Axis
	offset   float64
	exit     Direction

	visual Visual
	wake   Wake
}

// New returns an idle recognizer for a viewport of the given width.
func New(cfg Config, width, itemHeight float64) *Recognizer {
	return &Recognizer{cfg: cfg, width: width, height: itemHeight, visual: Neutral()}
}

// SetViewport updates the geometry used for thresholds and the exit animation.
func (r *Recognizer) SetViewport(width, itemHeight float64) {
	r.width, r.height = width, itemHeight
}

func (r *Recognizer) Phase() Phase       { return r.phase }
func (r *Recognizer) Axis() Axis         { return r.axis }
func (r *Recognizer) Traveled() float64  { return r.traveled }
func (r *Recognizer) Offset() float64    { return r.offset }
func (r *Recognizer) Visual() Visual     { return r.visual }
func (r *Recognizer) Wake() Wake         { return r.wake }
func (r *Recognizer) Idle() bool         { return r.phase == PhaseIdle }
func (r *Recognizer) ActiveTouch() int64 { return r.touch }

// CapturesScroll reports whether default scrolling must be suppressed, which
// is the case once a gesture locked horizontally.
func (r *Recognizer) CapturesScroll() bool {
	return r.phase == PhaseTracking && r.axis == AxisHorizontal
}

// Start begins tracking. It is ignored unless the recognizer is idle and
// exactly one touch targets the item.
func (r *Recognizer) Start(targets []Touch) bool {
	if r.phase != PhaseIdle || len(targets) != 1 {
		return false
	}
	t := targets[0]
	r.phase = PhaseTracking
	r.touch = t.ID
	r.start, r.last = t.Pos, t.Pos
	r.traveled = 0
	r.axis = AxisNone
	r.offset = 0
	r.visual = Neutral()
	r.wake = Wake{}
	return true
}

// Move consumes the position of the active touch, if present in touches.
func (r *Recognizer) Move(touches []Touch) bool {
	t, ok := r.find(touches)
	if !ok {
		return false
	}

	dx := t.Pos.X - r.last.X
	dy := t.Pos.Y - r.last.Y
	r.traveled += math.Abs(dx) + math.Abs(dy)

	if r.axis == AxisNone && r.traveled > r.cfg.LockThreshold {
		if math.Abs(t.Pos.X-r.start.X) > math.Abs(t.Pos.Y-r.start.Y) {
			r.axis = AxisHorizontal
		} else {
			r.axis = AxisVertical
		}
	}

	if r.axis == AxisHorizontal {
		r.offset += dx
		r.visual.Offset = r.offset
		r.visual.Opacity = r.opacity()
	}

	r.last = t.Pos
	return true
}

// End finishes the gesture if changed contains the active touch.
func (r *Recognizer) End(changed []Touch) (Outcome, bool) {
	if _, ok := r.find(changed); !ok {
		return Outcome{}, false
	}

	var out Outcome
	if r.traveled < r.cfg.TapThreshold {
		out.Tap = true
	}
	if r.axis == AxisHorizontal {
		if r.committed() {
			out.Swipe = SwipeCommitted
			out.Direction = Right
			if r.offset < 0 {
				out.Direction = Left
			}
		} else {
			out.Swipe = SwipeCancelled
		}
	}

	switch out.Swipe {
	case SwipeCommitted:
		r.exit = out.Direction
		r.phase = PhaseFreeze
		r.wake = Wake{Frame: true}
	case SwipeCancelled:
		r.phase = PhaseSnapBack
		r.visual = Visual{Opacity: 1, Transition: r.cfg.SnapBack}
		r.wake = Wake{After: r.cfg.SnapBack}
	default:
		r.reset()
	}
	r.touch = 0
	r.offset = 0
	return out, true
}

// Cancel drops the gesture with no outcome. The visual returns to neutral
// without animation.
func (r *Recognizer) Cancel(changed []Touch) bool {
	if _, ok := r.find(changed); !ok {
		return false
	}
	r.reset()
	return true
}

// Frame is called on the next render opportunity after Wake asked for one.
func (r *Recognizer) Frame() Signal {
	if !r.wake.Frame {
		return SignalNone
	}
	switch r.phase {
	case PhaseFreeze:
		r.visual.Height = r.height
		r.visual.Frozen = true
		r.phase = PhaseCollapse
		r.wake = Wake{Frame: true}
	case PhaseCollapse:
		r.visual = Visual{
			Offset:     float64(r.exit) * r.width,
			Height:     0,
			Frozen:     true,
			Collapsed:  true,
			Exit:       r.exit,
			Transition: r.cfg.Settle,
		}
		r.phase = PhaseSettle
		r.wake = Wake{After: r.cfg.Settle}
	default:
		r.wake = Wake{}
	}
	return SignalNone
}

// Elapsed is called once the delay requested by Wake has passed.
func (r *Recognizer) Elapsed() Signal {
	if r.wake.After == 0 {
		return SignalNone
	}
	switch r.phase {
	case PhaseSnapBack:
		r.reset()
		return SignalReady
	case PhaseSettle:
		r.reset()
		return SignalRemoved
	}
	r.wake = Wake{}
	return SignalNone
}

func (r *Recognizer) reset() {
	r.phase = PhaseIdle
	r.touch = 0
	r.traveled = 0
	r.axis = AxisNone
	r.offset = 0
	r.exit = 0
	r.visual = Neutral()
	r.wake = Wake{}
}

func (r *Recognizer) find(touches []Touch) (Touch, bool) {
	if r.phase != PhaseTracking {
		return Touch{}, false
	}
	for _, t := range touches {
		if t.ID == r.touch {
			return t, true
		}
	}
	return Touch{}, false
}

// not clamped: the caller's geometry keeps |offset| within the viewport
func (r *Recognizer) opacity() float64 {
	if r.width <= 0 {
		return 1
	}
	return 1 - math.Abs(r.offset)/r.width
}

func (r *Recognizer) committed() bool {
	if r.width <= 0 || r.offset == 0 {
		return false
	}
	return math.Abs(r.offset) >= r.cfg.CommitRatio*r.width
}
