// Package store holds the client's view of every list and its items.
//
// A Store has a single writer. Local user actions mutate it optimistically
// and events from the push feed are folded in by the merge policy
// (merge.go). Every operation keeps insertion order, at most one placeholder
// item per list and unique non-zero item ids.
package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/idilsaglam/liste/internal/model"
)

var (
	ErrUnknownList     = errors.New("unknown list")
	ErrUnknownItem     = errors.New("unknown item")
	ErrCreateInFlight  = errors.New("an item creation is already pending in this list")
	ErrIndexOutOfRange = errors.New("item index out of range")
)

// Handle addresses an item by position.
type Handle struct {
	List int
	Item int
}

// ItemRef selects an item either by id or by position.
type ItemRef struct {
	id      model.ID
	index   int
	byIndex bool
}

func ByID(id model.ID) ItemRef { return ItemRef{id: id} }
func AtIndex(i int) ItemRef    { return ItemRef{index: i, byIndex: true} }

// Ref addresses the handle's item within its list.
func (h Handle) Ref() ItemRef { return AtIndex(h.Item) }

func (r ItemRef) String() string {
	if r.byIndex {
		return fmt.Sprintf("#%d", r.index)
	}
	return "id " + r.id.String()
}

type Store struct {
	lists []model.List
	log   *slog.Logger
}

// New returns an empty store. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{log: log.With("component", "store")}
}

// Lists returns a deep copy of the current lists, in order.
func (s *Store) Lists() []model.List {
	out := make([]model.List, len(s.lists))
	for i, l := range s.lists {
		out[i] = l.Clone()
	}
	return out
}

// List returns a copy of the list with the given id.
func (s *Store) List(id model.ID) (model.List, bool) {
	i := s.listIndex(id)
	if i < 0 {
		return model.List{}, false
	}
	return s.lists[i].Clone(), true
}

// ItemAt returns the item at a position of a list.
func (s *Store) ItemAt(listID model.ID, index int) (model.Item, bool) {
	li := s.listIndex(listID)
	if li < 0 || index < 0 || index >= len(s.lists[li].Items) {
		return model.Item{}, false
	}
	return s.lists[li].Items[index], true
}

// IndexOf returns the position of an item within a list, or -1.
func (s *Store) IndexOf(listID, itemID model.ID) int {
	li := s.listIndex(listID)
	if li < 0 {
		return -1
	}
	return s.lists[li].IndexOf(itemID)
}

// Len returns the number of lists.
func (s *Store) Len() int { return len(s.lists) }

// Replace installs a fresh snapshot, typically the result of a full load.
// Duplicate list ids, duplicate item ids and extra placeholders are dropped.
func (s *Store) Replace(lists []model.List) {
	s.lists = make([]model.List, 0, len(lists))
	for _, l := range lists {
		if s.listIndex(l.ID) >= 0 {
			s.log.Warn("dropping duplicate list from snapshot", "list_id", l.ID)
			continue
		}
		items := make([]model.Item, 0, len(l.Items))
		placeholder := false
		seen := make(map[model.ID]bool, len(l.Items))
		for _, it := range l.Items {
			switch {
			case it.ID == model.Placeholder && placeholder:
				continue
			case it.ID == model.Placeholder:
				placeholder = true
			case seen[it.ID]:
				s.log.Warn("dropping duplicate item from snapshot", "list_id", l.ID, "item_id", it.ID)
				continue
			}
			seen[it.ID] = true
			it.ListID = l.ID
			items = append(items, it)
		}
		s.lists = append(s.lists, model.List{ID: l.ID, Name: l.Name, Items: items})
	}
}

// InsertList appends a list unless one with the same id already exists.
func (s *Store) InsertList(l model.List) bool {
	if s.listIndex(l.ID) >= 0 {
		s.log.Warn("list already present, ignoring insert", "list_id", l.ID)
		return false
	}
	s.lists = append(s.lists, model.List{ID: l.ID, Name: l.Name, Items: []model.Item{}})
	return true
}

// RenameList changes the name of a list, leaving its items and position.
func (s *Store) RenameList(id model.ID, name string) bool {
	i := s.listIndex(id)
	if i < 0 {
		s.log.Warn("rename of unknown list", "list_id", id)
		return false
	}
	s.lists[i].Name = name
	return true
}

// RemoveList drops a list and all of its items. Unknown ids are a no-op.
func (s *Store) RemoveList(id model.ID) bool {
	n := len(s.lists)
	kept := s.lists[:0]
	for _, l := range s.lists {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < n; i++ {
		s.lists[i] = model.List{}
	}
	s.lists = kept
	return len(kept) != n
}

// InsertItemOptimistic appends a placeholder item to the end of a list and
// returns where it landed. The caller must have validated the list already;
// an unknown list is a logic error and leaves the store untouched.
func (s *Store) InsertItemOptimistic(listID model.ID, content string) (Handle, error) {
	li := s.listIndex(listID)
	if li < 0 {
		return Handle{}, fmt.Errorf("insert into list %d: %w", listID, ErrUnknownList)
	}
	l := &s.lists[li]
	if l.IndexOf(model.Placeholder) >= 0 {
		return Handle{}, fmt.Errorf("insert into list %d: %w", listID, ErrCreateInFlight)
	}
	l.Items = append(l.Items, model.Item{ID: model.Placeholder, ListID: listID, Content: content})
	return Handle{List: li, Item: len(l.Items) - 1}, nil
}

// ResolveCreatedItem folds the authoritative result of a create call into
// the list. It follows the same rule as an ItemCreated event, so whichever of
// the two arrives first wins and the second is a duplicate.
func (s *Store) ResolveCreatedItem(listID model.ID, item model.Item) Result {
	if item.ListID == 0 {
		item.ListID = listID
	}
	return s.itemCreated(item)
}

// EditItemOptimistic replaces the content of an item in place.
func (s *Store) EditItemOptimistic(listID model.ID, ref ItemRef, content string) error {
	li := s.listIndex(listID)
	if li < 0 {
		return fmt.Errorf("edit in list %d: %w", listID, ErrUnknownList)
	}
	l := &s.lists[li]
	idx := ref.index
	if !ref.byIndex {
		idx = l.IndexOf(ref.id)
		if idx < 0 {
			return fmt.Errorf("edit %s in list %d: %w", ref, listID, ErrUnknownItem)
		}
	}
	if idx < 0 || idx >= len(l.Items) {
		return fmt.Errorf("edit %s in list %d: %w", ref, listID, ErrIndexOutOfRange)
	}
	l.Items[idx].Content = content
	return nil
}

// RemoveItemOptimistic splices the item at index out of the list and returns
// it. It does not wait for any remote confirmation.
func (s *Store) RemoveItemOptimistic(listID model.ID, index int) (model.Item, error) {
	li := s.listIndex(listID)
	if li < 0 {
		return model.Item{}, fmt.Errorf("remove from list %d: %w", listID, ErrUnknownList)
	}
	l := &s.lists[li]
	if index < 0 || index >= len(l.Items) {
		return model.Item{}, fmt.Errorf("remove #%d from list %d: %w", index, listID, ErrIndexOutOfRange)
	}
	it := l.Items[index]
	l.Items = append(l.Items[:index], l.Items[index+1:]...)
	return it, nil
}

func (s *Store) listIndex(id model.ID) int {
	for i, l := range s.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}
