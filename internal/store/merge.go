package store

import (
	"fmt"

	"github.com/idilsaglam/liste/internal/event"
	"github.com/idilsaglam/liste/internal/model"
)

// Result tells how an event was folded into the store.
type Result uint8

const (
	// Applied: the store changed.
	Applied Result = iota
	// Duplicate: the store already reflected the event.
	Duplicate
	// Missing: the event references a list or item the store does not hold.
	Missing
	// Ignored: the event kind is not understood.
	Ignored
)

func (r Result) String() string {
	return [...]string{"applied", "duplicate", "missing", "ignored"}[r]
}

// ApplyRemoteEvent folds one push-feed event into the store.
//
// The feed is best effort and may race with local optimistic mutations, so
// every lookup miss is logged and skipped, and replaying an event is
// harmless.
func (s *Store) ApplyRemoteEvent(ev event.Event) Result {
	switch e := ev.(type) {
	case event.ListCreated:
		if s.listIndex(e.List.ID) >= 0 {
			s.log.Debug("list already known", "list_id", e.List.ID)
			return Duplicate
		}
		s.lists = append(s.lists, model.List{ID: e.List.ID, Name: e.List.Name, Items: []model.Item{}})
		return Applied

	case event.ListRenamed:
		i := s.listIndex(e.List.ID)
		if i < 0 {
			s.log.Warn("renamed list does not exist", "list_id", e.List.ID)
			return Missing
		}
		if s.lists[i].Name == e.List.Name {
			return Duplicate
		}
		s.lists[i].Name = e.List.Name
		return Applied

	case event.ListRemoved:
		if !s.RemoveList(e.List.ID) {
			return Duplicate
		}
		return Applied

	case event.ItemCreated:
		return s.itemCreated(e.Item)

	case event.ItemEdited:
		li := s.listIndex(e.Item.ListID)
		if li < 0 {
			s.log.Warn("edited item does not belong to any list", "list_id", e.Item.ListID, "item_id", e.Item.ID)
			return Missing
		}
		idx := s.lists[li].IndexOf(e.Item.ID)
		if idx < 0 || e.Item.ID == model.Placeholder {
			s.log.Warn("edited item does not exist", "list_id", e.Item.ListID, "item_id", e.Item.ID)
			return Missing
		}
		s.lists[li].Items[idx].Content = e.Item.Content
		return Applied

	case event.ItemRemoved:
		li := s.listIndex(e.Item.ListID)
		if li < 0 {
			s.log.Warn("removed item does not belong to any list", "list_id", e.Item.ListID, "item_id", e.Item.ID)
			return Missing
		}
		if e.Item.ID == model.Placeholder {
			s.log.Warn("removal event for a placeholder id", "list_id", e.Item.ListID)
			return Missing
		}
		idx := s.lists[li].IndexOf(e.Item.ID)
		if idx < 0 {
			// already spliced out locally
			return Duplicate
		}
		l := &s.lists[li]
		l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
		return Applied

	case event.Unknown:
		s.log.Warn("unknown event tag", "tag", e.Name)
		return Ignored

	default:
		s.log.Warn("unsupported event", "type", fmt.Sprintf("%T", ev))
		return Ignored
	}
}

// itemCreated resolves the list's placeholder with the server item, or
// appends it when the creation came from elsewhere.
func (s *Store) itemCreated(it model.Item) Result {
	li := s.listIndex(it.ListID)
	if li < 0 {
		s.log.Warn("created item does not belong to any list", "list_id", it.ListID, "item_id", it.ID)
		return Missing
	}
	if it.ID == model.Placeholder {
		s.log.Warn("created item carries no id", "list_id", it.ListID)
		return Missing
	}
	l := &s.lists[li]
	if l.IndexOf(it.ID) >= 0 {
		s.log.Debug("created item already known", "list_id", it.ListID, "item_id", it.ID)
		return Duplicate
	}
	if idx := l.IndexOf(model.Placeholder); idx >= 0 {
		l.Items[idx] = it
		return Applied
	}
	l.Items = append(l.Items, it)
	return Applied
}
