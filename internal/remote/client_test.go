package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/liste/internal/model"
)

type recorded struct {
	method, path string
	user, pass   string
	body         map[string]any
}

func newTestServer(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) (*HTTPClient, func() []recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path}
		rec.user, rec.pass, _ = r.BasicAuth()
		if r.Body != nil && r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(Options{BaseURL: srv.URL, Username: "listclient", Password: "secret"})
	require.NoError(t, err)
	return c, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func TestClientRoutes(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/items":
			_, _ = w.Write([]byte(`{"id":2,"list_id":1,"content":"milk"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/lists":
			_, _ = w.Write([]byte(`{"id":3,"name":"Maison"}`))
		case r.URL.Path == "/lists":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Courses"}]`))
		case r.URL.Path == "/items", r.URL.Path == "/lists/1/items":
			_, _ = w.Write([]byte(`[{"id":1,"list_id":1,"content":"eggs"}]`))
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
	ctx := context.Background()

	lists, err := c.Lists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.List{{ID: 1, Name: "Courses"}}, lists)

	items, err := c.Items(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: 1, ListID: 1, Content: "eggs"}}, items)

	_, err = c.AllItems(ctx)
	require.NoError(t, err)

	it, err := c.CreateItem(ctx, 1, "milk")
	require.NoError(t, err)
	assert.Equal(t, model.Item{ID: 2, ListID: 1, Content: "milk"}, it)

	l, err := c.CreateList(ctx, "Maison")
	require.NoError(t, err)
	assert.Equal(t, model.ID(3), l.ID)

	require.NoError(t, c.RenameList(ctx, 3, "Jardin"))
	require.NoError(t, c.EditItem(ctx, 2, "oat milk"))
	require.NoError(t, c.DeleteItem(ctx, 2))
	require.NoError(t, c.DeleteList(ctx, 3))

	got := calls()
	require.Len(t, got, 9)
	for _, rec := range got {
		assert.Equal(t, "listclient", rec.user)
		assert.Equal(t, "secret", rec.pass)
	}
	assert.Equal(t, recorded{method: "GET", path: "/lists/1/items", user: "listclient", pass: "secret"}, got[1])
	assert.Equal(t, map[string]any{"list_id": float64(1), "content": "milk"}, got[3].body)
	assert.Equal(t, "PATCH", got[5].method)
	assert.Equal(t, "/lists/3", got[5].path)
	assert.Equal(t, map[string]any{"name": "Jardin"}, got[5].body)
	assert.Equal(t, map[string]any{"content": "oat milk"}, got[6].body)
	assert.Equal(t, "DELETE", got[7].method)
	assert.Equal(t, "/items/2", got[7].path)
}

func TestClientStatusError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"no such list"}`))
	})

	_, err := c.CreateItem(context.Background(), 99, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "no such list", se.Message)
	assert.Equal(t, "/items", se.Path)
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	_, err := NewHTTPClient(Options{BaseURL: ""})
	assert.Error(t, err)
	_, err = NewHTTPClient(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := NewHTTPClient(Options{BaseURL: "localhost:9000"})
	require.NoError(t, err)
	assert.Equal(t, "http", c.base.Scheme)
}

func TestFeedURL(t *testing.T) {
	u, err := FeedURL("http://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:9000/ws", u)

	u, err = FeedURL("https://lists.example.com/api/")
	require.NoError(t, err)
	assert.Equal(t, "wss://lists.example.com/api/ws", u)
}
