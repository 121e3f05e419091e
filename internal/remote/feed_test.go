package remote

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/liste/internal/event"
	"github.com/idilsaglam/liste/internal/model"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func receive(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestFeedDecodesTextAndBinaryFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"tag":"ItemCreated","value":{"id":2,"list_id":1,"content":"milk"}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte(`{"tag":"ListRemoved","value":{"id":1,"name":"Courses"}}`))
		// keep the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	f, err := NewFeed(Options{BaseURL: srv.URL}, 10*time.Millisecond, quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan event.Event, 4)
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx, out) }()

	assert.Equal(t, event.ItemCreated{Item: model.Item{ID: 2, ListID: 1, Content: "milk"}}, receive(t, out))
	assert.Equal(t, event.ListRemoved{List: model.List{ID: 1, Name: "Courses"}}, receive(t, out))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("feed did not stop")
	}
}

func TestFeedReconnects(t *testing.T) {
	var dials atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := dials.Add(1)
		_ = conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"tag":"ListCreated","value":{"id":`+model.ID(n).String()+`,"name":"l"}}`))
		// drop the connection right away
		_ = conn.Close()
	}))
	defer srv.Close()

	f, err := NewFeed(Options{BaseURL: srv.URL}, 10*time.Millisecond, quiet())
	require.NoError(t, err)
	var reconnects atomic.Int32
	f.OnReconnect = func() { reconnects.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan event.Event, 8)
	go func() { _ = f.Run(ctx, out) }()

	first := receive(t, out).(event.ListCreated)
	second := receive(t, out).(event.ListCreated)
	assert.Equal(t, model.ID(1), first.List.ID)
	assert.Equal(t, model.ID(2), second.List.ID)
	assert.GreaterOrEqual(t, reconnects.Load(), int32(1))
}
