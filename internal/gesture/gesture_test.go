package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const width = 400.0

func touch(id int64, x, y float64) []Touch { return []Touch{{ID: id, Pos: Point{X: x, Y: y}}} }

func newRecognizer() *Recognizer { return New(DefaultConfig(), width, 40) }

func TestSmallMovementIsATap(t *testing.T) {
	r := newRecognizer()
	require.True(t, r.Start(touch(1, 100, 100)))

	// 1 + 1 units: below the lock threshold, the axis stays undecided
	r.Move(touch(1, 101, 100))
	r.Move(touch(1, 101, 101))
	// a vertical nudge of 3 locks vertical, total distance 5
	r.Move(touch(1, 101, 104))
	assert.Equal(t, AxisVertical, r.Axis())
	assert.InDelta(t, 5, r.Traveled(), 1e-9)

	out, ok := r.End(touch(1, 101, 104))
	require.True(t, ok)
	assert.Equal(t, Outcome{Tap: true}, out)
	assert.Equal(t, PhaseIdle, r.Phase())
	assert.True(t, r.Wake().None())
}

func TestSwipePastThresholdCommitsAndRemovesAfterSettle(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(7, 10, 50))
	for _, x := range []float64{20, 60, 100, 10 + 0.35*width} {
		r.Move(touch(7, x, 50))
	}
	require.Equal(t, AxisHorizontal, r.Axis())
	assert.True(t, r.CapturesScroll())
	assert.InDelta(t, 0.35*width, r.Offset(), 1e-9)
	assert.InDelta(t, 0.65, r.Visual().Opacity, 1e-9)

	out, ok := r.End(touch(7, 10+0.35*width, 50))
	require.True(t, ok)
	assert.Equal(t, Outcome{Swipe: SwipeCommitted, Direction: Right}, out)

	// freeze the rendered height on the next frame
	require.Equal(t, Wake{Frame: true}, r.Wake())
	assert.Equal(t, SignalNone, r.Frame())
	assert.True(t, r.Visual().Frozen)
	assert.Equal(t, 40.0, r.Visual().Height)
	assert.False(t, r.Visual().Collapsed)

	// collapse and translate off-screen on the frame after
	require.Equal(t, Wake{Frame: true}, r.Wake())
	assert.Equal(t, SignalNone, r.Frame())
	v := r.Visual()
	assert.True(t, v.Collapsed)
	assert.Equal(t, 0.0, v.Opacity)
	assert.Equal(t, width, v.Offset)
	assert.Equal(t, Right, v.Exit)

	// removal is only signalled once the settle delay elapsed
	require.Equal(t, Wake{After: DefaultConfig().Settle}, r.Wake())
	assert.Equal(t, SignalRemoved, r.Elapsed())
	assert.Equal(t, PhaseIdle, r.Phase())
	assert.Equal(t, Neutral(), r.Visual())
}

func TestLeftSwipeExitsLeft(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(1, 300, 10))
	r.Move(touch(1, 280, 10))
	r.Move(touch(1, 150, 11))
	out, _ := r.End(touch(1, 150, 11))
	assert.Equal(t, Outcome{Swipe: SwipeCommitted, Direction: Left}, out)

	r.Frame()
	r.Frame()
	assert.Equal(t, -width, r.Visual().Offset)
}

func TestShortSwipeCancelsAndSnapsBack(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(2, 0, 0))
	r.Move(touch(2, 20, 0))
	r.Move(touch(2, 0.1*width, 0))
	out, ok := r.End(touch(2, 0.1*width, 0))
	require.True(t, ok)
	assert.Equal(t, Outcome{Swipe: SwipeCancelled}, out)

	assert.Equal(t, PhaseSnapBack, r.Phase())
	assert.Equal(t, 0.0, r.Visual().Offset)
	assert.Equal(t, 1.0, r.Visual().Opacity)
	assert.Equal(t, DefaultConfig().SnapBack, r.Visual().Transition)

	// no new gesture until the snap-back finished
	assert.False(t, r.Start(touch(3, 0, 0)))
	assert.Equal(t, SignalReady, r.Elapsed())
	assert.True(t, r.Start(touch(3, 0, 0)))
}

func TestTinySwipeIsTapAndCancelled(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(1, 0, 0))
	r.Move(touch(1, 4, 0))
	out, _ := r.End(touch(1, 4, 0))
	assert.Equal(t, Outcome{Tap: true, Swipe: SwipeCancelled}, out)
}

func TestAxisLockIsDecidedOnce(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(1, 0, 0))
	r.Move(touch(1, 0, 3))
	require.Equal(t, AxisVertical, r.Axis())

	r.Move(touch(1, 200, 3))
	assert.Equal(t, AxisVertical, r.Axis())
	assert.Equal(t, 0.0, r.Offset(), "vertical lock stops offset tracking")
	assert.False(t, r.CapturesScroll())

	out, _ := r.End(touch(1, 200, 3))
	assert.True(t, out.Empty())
}

func TestAxisLockComparesAgainstStart(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(1, 0, 0))
	r.Move(touch(1, 2, 0)) // traveled 2, not above the threshold
	assert.Equal(t, AxisNone, r.Axis())
	r.Move(touch(1, 2, 2)) // from start: |dx| == |dy|, ties go vertical
	assert.Equal(t, AxisVertical, r.Axis())
}

func TestForeignTouchesAreIgnored(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(1, 0, 0))

	assert.False(t, r.Start(touch(2, 5, 5)), "second touch on the same item")
	assert.False(t, r.Move(touch(2, 300, 0)))
	_, ended := r.End(touch(2, 300, 0))
	assert.False(t, ended)
	assert.False(t, r.Cancel(touch(2, 0, 0)))

	assert.Equal(t, PhaseTracking, r.Phase())
	assert.Equal(t, 0.0, r.Traveled())
	assert.Equal(t, AxisNone, r.Axis())
}

func TestMultiTouchStartIsIgnored(t *testing.T) {
	r := newRecognizer()
	assert.False(t, r.Start([]Touch{{ID: 1}, {ID: 2}}))
	assert.Equal(t, PhaseIdle, r.Phase())
}

func TestCancelResetsImmediately(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(1, 0, 0))
	r.Move(touch(1, 50, 0))
	require.NotEqual(t, Neutral(), r.Visual())

	assert.True(t, r.Cancel(touch(1, 50, 0)))
	assert.Equal(t, PhaseIdle, r.Phase())
	assert.Equal(t, Neutral(), r.Visual())
	assert.True(t, r.Wake().None())

	_, ended := r.End(touch(1, 50, 0))
	assert.False(t, ended, "a cancelled gesture emits nothing")
}

func TestTouchesIgnoredDuringExitAnimation(t *testing.T) {
	r := newRecognizer()
	r.Start(touch(1, 0, 0))
	r.Move(touch(1, 200, 0))
	r.End(touch(1, 200, 0))
	require.Equal(t, PhaseFreeze, r.Phase())

	assert.False(t, r.Start(touch(4, 0, 0)))
	assert.Equal(t, SignalNone, r.Elapsed(), "no timer is pending before the collapse")
	assert.Equal(t, PhaseFreeze, r.Phase())
}

func TestZeroWidthNeverCommits(t *testing.T) {
	r := New(DefaultConfig(), 0, 0)
	r.Start(touch(1, 0, 0))
	r.Move(touch(1, 50, 0))
	assert.Equal(t, 1.0, r.Visual().Opacity)
	out, _ := r.End(touch(1, 50, 0))
	assert.Equal(t, SwipeCancelled, out.Swipe)
}
