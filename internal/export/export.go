// Package export writes a read-only snapshot of the remote lists.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/liste/internal/model"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or yaml)", s)
}

// FormatFor guesses the format from a file extension, defaulting to JSON.
func FormatFor(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return JSON
}

type Snapshot struct {
	Server     string    `json:"server" yaml:"server"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Lists      []List    `json:"lists" yaml:"lists"`
}

type List struct {
	ID    model.ID `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Items []Item   `json:"items" yaml:"items"`
}

type Item struct {
	ID      model.ID `json:"id" yaml:"id"`
	Content string   `json:"content" yaml:"content"`
}

func NewSnapshot(server string, at time.Time, lists []model.List) Snapshot {
	s := Snapshot{Server: server, ExportedAt: at.UTC(), Lists: make([]List, 0, len(lists))}
	for _, l := range lists {
		out := List{ID: l.ID, Name: l.Name, Items: make([]Item, 0, len(l.Items))}
		for _, it := range l.Items {
			out.Items = append(out.Items, Item{ID: it.ID, Content: it.Content})
		}
		s.Lists = append(s.Lists, out)
	}
	return s
}

func Write(w io.Writer, s Snapshot, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	}
}

func WriteFile(path string, s Snapshot, f Format) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if err := Write(out, s, f); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
