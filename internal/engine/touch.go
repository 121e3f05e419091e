package engine

import (
	"github.com/idilsaglam/liste/internal/gesture"
	"github.com/idilsaglam/liste/internal/model"
)

func (e *Engine) handleTouch(in TouchInput) {
	switch in.Kind {
	case TouchStart:
		it, ok := e.store.ItemAt(in.List, in.Index)
		if !ok {
			return
		}
		v := e.viewFor(ViewKey{List: in.List, Item: it.ID})
		if !v.rec.Start(in.Touches) {
			return
		}
		e.captured[v.rec.ActiveTouch()] = v

	case TouchMove:
		for _, v := range e.route(in.Touches) {
			v.rec.Move(in.Touches)
		}

	case TouchEnd:
		for _, v := range e.route(in.Touches) {
			id := v.rec.ActiveTouch()
			out, ok := v.rec.End(in.Touches)
			if !ok {
				continue
			}
			delete(e.captured, id)
			e.outcome(v, out)
			e.schedule(v)
		}

	case TouchCancel:
		for _, v := range e.route(in.Touches) {
			id := v.rec.ActiveTouch()
			if v.rec.Cancel(in.Touches) {
				delete(e.captured, id)
			}
		}
	}
}

// route returns the views holding one of the touches.
func (e *Engine) route(touches []gesture.Touch) []*view {
	var out []*view
	for _, t := range touches {
		v, ok := e.captured[t.ID]
		if !ok {
			continue
		}
		if e.views[v.key] != v {
			delete(e.captured, t.ID)
			continue
		}
		out = append(out, v)
	}
	return out
}

func (e *Engine) outcome(v *view, out gesture.Outcome) {
	e.log.Debug("gesture ended", "list_id", v.key.List, "item_id", v.key.Item,
		"tap", out.Tap, "swipe", out.Swipe, "direction", out.Direction)
	if !out.Tap {
		return
	}
	idx := e.store.IndexOf(v.key.List, v.key.Item)
	if idx < 0 {
		return
	}
	it, _ := e.store.ItemAt(v.key.List, idx)
	e.emit(OpenEditor{List: v.key.List, Index: idx, Item: it})
}

// schedule arranges for the recognizer's next wake-up.
func (e *Engine) schedule(v *view) {
	w := v.rec.Wake()
	switch {
	case w.Frame:
		e.requestFrame()
	case w.After > 0:
		v.gen++
		wk := wake{v: v, gen: v.gen}
		e.sched.After(w.After, func() {
			select {
			case e.elapsed <- wk:
			case <-e.ctx.Done():
			}
		})
	}
}

func (e *Engine) requestFrame() {
	if e.frameDue {
		return
	}
	e.frameDue = true
	e.sched.After(e.cfg.Frame, func() {
		select {
		case e.ticks <- struct{}{}:
		case <-e.ctx.Done():
		}
	})
}

func (e *Engine) handleTick() {
	e.frameDue = false
	for _, v := range e.views {
		if v.rec.Wake().Frame {
			v.rec.Frame()
			e.schedule(v)
		}
	}
}

func (e *Engine) handleElapsed(w wake) {
	v := w.v
	if w.gen != v.gen || e.views[v.key] != v {
		return
	}
	switch v.rec.Elapsed() {
	case gesture.SignalRemoved:
		delete(e.views, v.key)
		idx := e.store.IndexOf(v.key.List, v.key.Item)
		if idx < 0 {
			e.log.Debug("swiped item already gone", "list_id", v.key.List, "item_id", v.key.Item)
			return
		}
		e.removeItem(v.key.List, idx)
	case gesture.SignalReady:
		e.prune()
	}
}

func (e *Engine) viewFor(key ViewKey) *view {
	if v, ok := e.views[key]; ok {
		return v
	}
	v := &view{key: key, rec: gesture.New(e.cfg.Gesture, e.cfg.Width, e.cfg.ItemHeight)}
	e.views[key] = v
	return v
}

// resolved moves the view of a list's placeholder to the id the service
// assigned, so a gesture in progress survives the reconciliation.
func (e *Engine) resolved(listID, id model.ID) {
	if e.store.IndexOf(listID, model.Placeholder) >= 0 {
		return
	}
	from := ViewKey{List: listID, Item: model.Placeholder}
	v, ok := e.views[from]
	if !ok {
		return
	}
	delete(e.views, from)
	to := ViewKey{List: listID, Item: id}
	if _, taken := e.views[to]; taken {
		return
	}
	v.key = to
	e.views[to] = v
}

// prune forgets idle views whose item left the store.
func (e *Engine) prune() {
	for k, v := range e.views {
		if v.rec.Idle() && e.store.IndexOf(k.List, k.Item) < 0 {
			delete(e.views, k)
		}
	}
}
