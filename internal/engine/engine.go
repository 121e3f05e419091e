// Package engine is the single consumer that owns the view store and the
// per-item gesture recognizers.
//
// Push events, UI intents and touch input arrive on separate channels and are
// handled one at a time by Run, so the store never sees concurrent writers.
// Remote calls run in their own goroutines and post their results back to
// the loop. A failed call is logged and the optimistic local change stands;
// Reload is the way back to server truth.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/liste/internal/event"
	"github.com/idilsaglam/liste/internal/gesture"
	"github.com/idilsaglam/liste/internal/model"
	"github.com/idilsaglam/liste/internal/remote"
	"github.com/idilsaglam/liste/internal/store"
)

type Config struct {
	Gesture gesture.Config
	// Frame is the delay between render frames while an animation waits
	// for one.
	Frame      time.Duration
	Width      float64
	ItemHeight float64
	Scheduler  Scheduler
}

func DefaultConfig() Config {
	return Config{
		Gesture:    gesture.DefaultConfig(),
		Frame:      16 * time.Millisecond,
		Width:      640,
		ItemHeight: 16,
	}
}

type view struct {
	key ViewKey
	rec *gesture.Recognizer
	gen uint64
}

type wake struct {
	v   *view
	gen uint64
}

type callResult struct {
	op    string
	apply func()
	err   error
	log   *slog.Logger
}

type loadResult struct {
	lists []model.List
	err   error
	log   *slog.Logger
}

type Engine struct {
	svc   remote.Service
	cfg   Config
	sched Scheduler
	log   *slog.Logger
	store *store.Store

	events  chan event.Event
	intents chan Intent
	touches chan TouchInput
	results chan callResult
	loaded  chan loadResult
	elapsed chan wake
	ticks   chan struct{}

	frames  chan Frame
	effects chan Effect

	// owned by the Run goroutine
	views     map[ViewKey]*view
	captured  map[int64]*view
	loading   bool
	replay    []event.Event
	pending   int
	frameDue  bool
	seq       uint64
	ctx       context.Context
	callGroup sync.WaitGroup
}

func New(svc remote.Service, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Frame <= 0 {
		cfg.Frame = def.Frame
	}
	if cfg.Gesture == (gesture.Config{}) {
		cfg.Gesture = def.Gesture
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Engine{
		svc:      svc,
		cfg:      cfg,
		sched:    sched,
		log:      log.With("component", "engine"),
		store:    store.New(log),
		events:   make(chan event.Event, 64),
		intents:  make(chan Intent, 16),
		touches:  make(chan TouchInput, 64),
		results:  make(chan callResult, 16),
		loaded:   make(chan loadResult, 1),
		elapsed:  make(chan wake, 16),
		ticks:    make(chan struct{}, 1),
		frames:   make(chan Frame, 1),
		effects:  make(chan Effect, 32),
		views:    make(map[ViewKey]*view),
		captured: make(map[int64]*view),
	}
}

// Events is where the push feed delivers decoded events.
func (e *Engine) Events() chan<- event.Event { return e.events }

func (e *Engine) Intents() chan<- Intent { return e.intents }

func (e *Engine) Touches() chan<- TouchInput { return e.touches }

// Frames carries the latest render snapshot. Unread frames are replaced.
func (e *Engine) Frames() <-chan Frame { return e.frames }

func (e *Engine) Effects() <-chan Effect { return e.effects }

// Run loads the lists and processes input until ctx is done. It waits for
// in-flight remote calls to return before it does.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	defer e.callGroup.Wait()

	e.startLoad()
	e.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-e.events:
			e.handleEvent(ev)
		case in := <-e.intents:
			e.handleIntent(in)
		case in := <-e.touches:
			e.handleTouch(in)
		case r := <-e.results:
			e.handleResult(r)
		case r := <-e.loaded:
			e.handleLoad(r)
		case w := <-e.elapsed:
			e.handleElapsed(w)
		case <-e.ticks:
			e.handleTick()
		}
		e.publish()
	}
}

func (e *Engine) handleEvent(ev event.Event) {
	if e.loading {
		e.replay = append(e.replay, ev)
		return
	}
	e.apply(ev)
	e.prune()
}

func (e *Engine) apply(ev event.Event) {
	res := e.store.ApplyRemoteEvent(ev)
	e.log.Debug("event applied", "tag", ev.Tag(), "result", res)
	if c, ok := ev.(event.ItemCreated); ok && res == store.Applied {
		e.resolved(c.Item.ListID, c.Item.ID)
	}
}

func (e *Engine) startLoad() {
	if e.loading {
		return
	}
	e.loading = true
	log := e.log.With("call_id", uuid.NewString(), "op", "load")
	log.Debug("loading lists")

	e.callGroup.Add(1)
	go func() {
		defer e.callGroup.Done()
		lists, err := Load(e.ctx, e.svc, log)
		select {
		case e.loaded <- loadResult{lists: lists, err: err, log: log}:
		case <-e.ctx.Done():
		}
	}()
}

func (e *Engine) handleLoad(r loadResult) {
	e.loading = false
	if r.err != nil {
		r.log.Error("load failed", "err", r.err)
		e.emit(Notice{Level: slog.LevelError, Text: "could not load lists: " + r.err.Error()})
	} else {
		e.store.Replace(r.lists)
		r.log.Info("lists loaded", "lists", len(r.lists))
	}

	replay := e.replay
	e.replay = nil
	for _, ev := range replay {
		e.apply(ev)
	}
	e.prune()
}

// call runs fn in its own goroutine. The returned function, if any, is
// applied on the loop once the call succeeded.
func (e *Engine) call(op string, attrs []any, fn func(ctx context.Context) (func(), error)) {
	log := e.log.With(append([]any{"call_id", uuid.NewString(), "op", op}, attrs...)...)
	log.Debug("remote call")
	e.pending++

	e.callGroup.Add(1)
	go func() {
		defer e.callGroup.Done()
		apply, err := fn(e.ctx)
		select {
		case e.results <- callResult{op: op, apply: apply, err: err, log: log}:
		case <-e.ctx.Done():
		}
	}()
}

func (e *Engine) handleResult(r callResult) {
	e.pending--
	if r.err != nil {
		r.log.Error("remote call failed, keeping local state", "err", r.err)
		e.emit(Notice{Level: slog.LevelError, Text: r.op + " failed: " + r.err.Error()})
		return
	}
	r.log.Debug("remote call done")
	if r.apply != nil {
		r.apply()
	}
}

func (e *Engine) emit(eff Effect) {
	select {
	case e.effects <- eff:
	default:
		e.log.Warn("effect queue full, dropping", "effect", eff)
	}
}

func (e *Engine) publish() {
	e.seq++
	f := Frame{
		Seq:     e.seq,
		Lists:   e.store.Lists(),
		Loading: e.loading,
		Pending: e.pending,
	}
	for k, v := range e.views {
		if vis := v.rec.Visual(); vis != gesture.Neutral() {
			if f.Visuals == nil {
				f.Visuals = make(map[ViewKey]gesture.Visual)
			}
			f.Visuals[k] = vis
		}
	}
	select {
	case <-e.frames:
	default:
	}
	select {
	case e.frames <- f:
	default:
	}
}
