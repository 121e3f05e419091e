package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/idilsaglam/liste/internal/event"
	"github.com/idilsaglam/liste/internal/model"
	"github.com/idilsaglam/liste/internal/store"
)

func (e *Engine) handleIntent(in Intent) {
	switch in := in.(type) {
	case CreateList:
		name := strings.TrimSpace(in.Name)
		if name == "" {
			e.emit(Notice{Level: slog.LevelWarn, Text: "a list needs a name"})
			return
		}
		e.call("create_list", []any{"name", name}, func(ctx context.Context) (func(), error) {
			l, err := e.svc.CreateList(ctx, name)
			if err != nil {
				return nil, err
			}
			return func() {
				// same rule as the feed echo of this creation
				e.store.ApplyRemoteEvent(event.ListCreated{List: l})
				e.emit(ListCreated{List: l})
			}, nil
		})

	case RenameList:
		name := strings.TrimSpace(in.Name)
		if name == "" || !e.store.RenameList(in.List, name) {
			return
		}
		e.call("rename_list", []any{"list_id", in.List}, func(ctx context.Context) (func(), error) {
			return nil, e.svc.RenameList(ctx, in.List, name)
		})

	case RemoveList:
		if !e.store.RemoveList(in.List) {
			return
		}
		e.prune()
		e.call("delete_list", []any{"list_id", in.List}, func(ctx context.Context) (func(), error) {
			return nil, e.svc.DeleteList(ctx, in.List)
		})

	case AddItem:
		e.addItem(in)

	case EditItem:
		e.editItem(in)

	case RemoveItem:
		e.removeItem(in.List, in.Index)

	case Resize:
		if in.Width > 0 {
			e.cfg.Width = in.Width
		}
		if in.ItemHeight > 0 {
			e.cfg.ItemHeight = in.ItemHeight
		}
		for _, v := range e.views {
			v.rec.SetViewport(e.cfg.Width, e.cfg.ItemHeight)
		}

	case Reload:
		e.startLoad()

	default:
		e.log.Warn("unsupported intent", "intent", in)
	}
}

func (e *Engine) addItem(in AddItem) {
	if in.Content == "" {
		return
	}
	h, err := e.store.InsertItemOptimistic(in.List, in.Content)
	switch {
	case errors.Is(err, store.ErrCreateInFlight):
		e.emit(Notice{Level: slog.LevelWarn, Text: "the previous item is still being saved"})
		return
	case err != nil:
		e.log.Error("optimistic insert refused", "err", err)
		return
	}
	e.log.Debug("item inserted", "list_id", in.List, "index", h.Item)

	listID, content := in.List, in.Content
	e.call("create_item", []any{"list_id", listID}, func(ctx context.Context) (func(), error) {
		it, err := e.svc.CreateItem(ctx, listID, content)
		if err != nil {
			return nil, err
		}
		return func() {
			if e.store.ResolveCreatedItem(listID, it) == store.Applied {
				e.resolved(listID, it.ID)
			}
		}, nil
	})
}

func (e *Engine) editItem(in EditItem) {
	it, ok := e.store.ItemAt(in.List, in.Index)
	if !ok {
		e.log.Warn("edited item is gone", "list_id", in.List, "index", in.Index)
		return
	}
	if err := e.store.EditItemOptimistic(in.List, store.AtIndex(in.Index), in.Content); err != nil {
		e.log.Error("optimistic edit refused", "err", err)
		return
	}
	if it.Pending() {
		// the creation already carries the old content
		e.log.Warn("edit of a pending item stays local", "list_id", in.List, "index", in.Index)
		return
	}
	id, content := it.ID, in.Content
	e.call("edit_item", []any{"item_id", id}, func(ctx context.Context) (func(), error) {
		return nil, e.svc.EditItem(ctx, id, content)
	})
}

func (e *Engine) removeItem(listID model.ID, index int) {
	it, err := e.store.RemoveItemOptimistic(listID, index)
	if err != nil {
		e.log.Warn("nothing to remove", "err", err)
		return
	}
	e.prune()
	if it.Pending() {
		e.log.Warn("removed a pending item, the service will still create it", "list_id", listID)
		return
	}
	e.call("delete_item", []any{"item_id", it.ID}, func(ctx context.Context) (func(), error) {
		return nil, e.svc.DeleteItem(ctx, it.ID)
	})
}
