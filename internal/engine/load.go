package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/liste/internal/model"
	"github.com/idilsaglam/liste/internal/remote"
)

// Load fetches every list and every item concurrently and attaches the items
// to their lists in the order the service returned them. Items whose list is
// unknown are logged and dropped.
func Load(ctx context.Context, svc remote.Service, log *slog.Logger) ([]model.List, error) {
	var (
		lists []model.List
		items []model.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lists, err = svc.Lists(gctx)
		if err != nil {
			return fmt.Errorf("load lists: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = svc.AllItems(gctx)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := make(map[model.ID]int, len(lists))
	for i := range lists {
		lists[i].Items = []model.Item{}
		index[lists[i].ID] = i
	}
	for _, it := range items {
		i, ok := index[it.ListID]
		if !ok {
			log.Warn("item belongs to no list", "item_id", it.ID, "list_id", it.ListID)
			continue
		}
		lists[i].Items = append(lists[i].Items, it)
	}
	return lists, nil
}
