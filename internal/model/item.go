package model

import "strconv"

// ID identifies a list or an item. Values are assigned by the remote service.
type ID int64

// Placeholder marks an item whose id has not been assigned yet.
// A list holds at most one placeholder at a time.
const Placeholder ID = 0

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID parses a decimal id as typed on the command line.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// Item is one entry of a list.
type Item struct {
	ID      ID     `json:"id" yaml:"id"`
	ListID  ID     `json:"list_id" yaml:"list_id"`
	Content string `json:"content" yaml:"content"`
}

// Pending reports whether the item is still waiting for its server id.
func (i Item) Pending() bool { return i.ID == Placeholder }

// List is a named, ordered sequence of items. Items stay in insertion order.
type List struct {
	ID    ID     `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Items []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// Clone returns a copy that shares no item storage with l.
func (l List) Clone() List {
	out := l
	if l.Items != nil {
		out.Items = make([]Item, len(l.Items))
		copy(out.Items, l.Items)
	}
	return out
}

// IndexOf returns the position of the item with the given id, or -1.
func (l List) IndexOf(id ID) int {
	for i, it := range l.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
