// Package remote talks to the list service: JSON request/response calls over
// HTTP and the websocket push feed.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/idilsaglam/liste/internal/model"
)

// Service is the set of calls the client makes against the list service.
type Service interface {
	Lists(ctx context.Context) ([]model.List, error)
	Items(ctx context.Context, listID model.ID) ([]model.Item, error)
	AllItems(ctx context.Context) ([]model.Item, error)
	CreateList(ctx context.Context, name string) (model.List, error)
	CreateItem(ctx context.Context, listID model.ID, content string) (model.Item, error)
	RenameList(ctx context.Context, id model.ID, name string) error
	EditItem(ctx context.Context, id model.ID, content string) error
	DeleteList(ctx context.Context, id model.ID) error
	DeleteItem(ctx context.Context, id model.ID) error
}

// ErrStatus matches every *StatusError.
var ErrStatus = errors.New("unexpected status")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Options configures the HTTP client and the feed.
type Options struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// HTTPClient implements Service against the REST API.
type HTTPClient struct {
	base     *url.URL
	username string
	password string
	hc       *http.Client
}

var _ Service = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) (*HTTPClient, error) {
	base, err := parseBase(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{base: base, username: opts.Username, password: opts.Password, hc: hc}, nil
}

func parseBase(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("server url is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

func (c *HTTPClient) Lists(ctx context.Context) ([]model.List, error) {
	var out []model.List
	err := c.do(ctx, http.MethodGet, "lists", nil, &out)
	return out, err
}

// List fetches a single list, without its items.
func (c *HTTPClient) List(ctx context.Context, id model.ID) (model.List, error) {
	var out model.List
	err := c.do(ctx, http.MethodGet, "lists/"+id.String(), nil, &out)
	return out, err
}

func (c *HTTPClient) Items(ctx context.Context, listID model.ID) ([]model.Item, error) {
	var out []model.Item
	err := c.do(ctx, http.MethodGet, "lists/"+listID.String()+"/items", nil, &out)
	return out, err
}

func (c *HTTPClient) AllItems(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	err := c.do(ctx, http.MethodGet, "items", nil, &out)
	return out, err
}

// Item fetches a single item.
func (c *HTTPClient) Item(ctx context.Context, id model.ID) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodGet, "items/"+id.String(), nil, &out)
	return out, err
}

func (c *HTTPClient) CreateList(ctx context.Context, name string) (model.List, error) {
	var out model.List
	err := c.do(ctx, http.MethodPost, "lists", map[string]any{"name": name}, &out)
	return out, err
}

func (c *HTTPClient) CreateItem(ctx context.Context, listID model.ID, content string) (model.Item, error) {
	var out model.Item
	err := c.do(ctx, http.MethodPost, "items", map[string]any{"list_id": listID, "content": content}, &out)
	return out, err
}

func (c *HTTPClient) RenameList(ctx context.Context, id model.ID, name string) error {
	return c.do(ctx, http.MethodPatch, "lists/"+id.String(), map[string]any{"name": name}, nil)
}

func (c *HTTPClient) EditItem(ctx context.Context, id model.ID, content string) error {
	return c.do(ctx, http.MethodPatch, "items/"+id.String(), map[string]any{"content": content}, nil)
}

func (c *HTTPClient) DeleteList(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, "lists/"+id.String(), nil, nil)
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, "items/"+id.String(), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: marshal: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), rd)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: "/" + path, Code: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling back
// to the trimmed body.
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(b))
}
