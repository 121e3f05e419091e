// Package event defines the push-feed messages exchanged between the list
// service and its clients, and their JSON wire format:
//
//	{"tag": "ItemCreated", "value": {"id": 2, "list_id": 1, "content": "milk"}}
package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/idilsaglam/liste/internal/model"
)

// Tag names the kind of change carried by an event.
type Tag string

const (
	TagListCreated Tag = "ListCreated"
	TagListRenamed Tag = "ListRenamed"
	TagListRemoved Tag = "ListRemoved"
	TagItemCreated Tag = "ItemCreated"
	TagItemEdited  Tag = "ItemEdited"
	TagItemRemoved Tag = "ItemRemoved"
)

// Event is one change notification. The set of implementations is closed:
// the six variants below plus Unknown for tags this client does not know.
type Event interface {
	Tag() Tag
	isEvent()
}

type ListCreated struct{ List model.List }
type ListRenamed struct{ List model.List }
type ListRemoved struct{ List model.List }
type ItemCreated struct{ Item model.Item }
type ItemEdited struct{ Item model.Item }
type ItemRemoved struct{ Item model.Item }

// Unknown carries a message whose tag is not recognised. Consumers log and
// skip it.
type Unknown struct {
	Name  string
	Value json.RawMessage
}

func (ListCreated) Tag() Tag { return TagListCreated }
func (ListRenamed) Tag() Tag { return TagListRenamed }
func (ListRemoved) Tag() Tag { return TagListRemoved }
func (ItemCreated) Tag() Tag { return TagItemCreated }
func (ItemEdited) Tag() Tag  { return TagItemEdited }
func (ItemRemoved) Tag() Tag { return TagItemRemoved }
func (u Unknown) Tag() Tag   { return Tag(u.Name) }

func (ListCreated) isEvent() {}
func (ListRenamed) isEvent() {}
func (ListRemoved) isEvent() {}
func (ItemCreated) isEvent() {}
func (ItemEdited) isEvent()  {}
func (ItemRemoved) isEvent() {}
func (Unknown) isEvent()     {}

// ErrMalformed is returned by Decode when a message cannot be parsed.
var ErrMalformed = errors.New("malformed event")

type envelope struct {
	Tag   Tag             `json:"tag"`
	Value json.RawMessage `json:"value"`
}

// Decode parses one wire message. An unrecognised tag is not an error; it
// yields an Unknown event.
func Decode(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Tag == "" {
		return nil, fmt.Errorf("%w: missing tag", ErrMalformed)
	}

	switch env.Tag {
	case TagListCreated, TagListRenamed, TagListRemoved:
		var l model.List
		if err := json.Unmarshal(env.Value, &l); err != nil {
			return nil, fmt.Errorf("%w: %s value: %v", ErrMalformed, env.Tag, err)
		}
		l.Items = nil
		switch env.Tag {
		case TagListCreated:
			return ListCreated{List: l}, nil
		case TagListRenamed:
			return ListRenamed{List: l}, nil
		default:
			return ListRemoved{List: l}, nil
		}
	case TagItemCreated, TagItemEdited, TagItemRemoved:
		var it model.Item
		if err := json.Unmarshal(env.Value, &it); err != nil {
			return nil, fmt.Errorf("%w: %s value: %v", ErrMalformed, env.Tag, err)
		}
		switch env.Tag {
		case TagItemCreated:
			return ItemCreated{Item: it}, nil
		case TagItemEdited:
			return ItemEdited{Item: it}, nil
		default:
			return ItemRemoved{Item: it}, nil
		}
	}
	return Unknown{Name: string(env.Tag), Value: env.Value}, nil
}

// Encode renders an event in wire format.
func Encode(ev Event) ([]byte, error) {
	var value any
	switch e := ev.(type) {
	case ListCreated:
		value = listValue(e.List)
	case ListRenamed:
		value = listValue(e.List)
	case ListRemoved:
		value = listValue(e.List)
	case ItemCreated:
		value = e.Item
	case ItemEdited:
		value = e.Item
	case ItemRemoved:
		value = e.Item
	case Unknown:
		value = e.Value
	default:
		return nil, fmt.Errorf("encode: unsupported event %T", ev)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.Tag(), err)
	}
	return json.Marshal(envelope{Tag: ev.Tag(), Value: raw})
}

// lists travel without their items
func listValue(l model.List) model.List {
	l.Items = nil
	return l
}
