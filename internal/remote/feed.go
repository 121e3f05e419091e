package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/liste/internal/event"
)

// Feed follows the service's websocket push feed and reconnects when the
// connection drops. Nothing is replayed across a reconnect.
type Feed struct {
	url     string
	header  http.Header
	dialer  *websocket.Dialer
	limiter *rate.Limiter
	log     *slog.Logger

	// OnReconnect, if set, is called after every successful dial except the
	// first, from the Run goroutine.
	OnReconnect func()
}

// FeedURL derives the websocket endpoint from the REST base url.
func FeedURL(base string) (string, error) {
	u, err := parseBase(base)
	if err != nil {
		return "", err
	}
	ws := *u
	ws.Scheme = "ws"
	if u.Scheme == "https" {
		ws.Scheme = "wss"
	}
	return ws.JoinPath("ws").String(), nil
}

// NewFeed prepares a feed. At most one dial is attempted per retry interval.
func NewFeed(opts Options, retry time.Duration, log *slog.Logger) (*Feed, error) {
	u, err := FeedURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if retry <= 0 {
		retry = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	header := http.Header{}
	if opts.Username != "" || opts.Password != "" {
		req := &http.Request{Header: header}
		req.SetBasicAuth(opts.Username, opts.Password)
	}
	return &Feed{
		url:     u,
		header:  header,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment},
		limiter: rate.NewLimiter(rate.Every(retry), 1),
		log:     log.With("component", "feed", "url", redact(u)),
	}, nil
}

// Run delivers decoded events to out until ctx is done. It returns ctx.Err().
func (f *Feed) Run(ctx context.Context, out chan<- event.Event) error {
	connected := false
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}
		conn, _, err := f.dialer.DialContext(ctx, f.url, f.header)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.log.Warn("dial failed", "err", err)
			continue
		}
		f.log.Info("connected")
		if connected && f.OnReconnect != nil {
			f.OnReconnect()
		}
		connected = true

		err = f.consume(ctx, conn, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.log.Warn("connection lost", "err", err)
	}
}

func (f *Feed) consume(ctx context.Context, conn *websocket.Conn, out chan<- event.Event) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("closed by server: %w", err)
			}
			return err
		}
		if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
			continue
		}
		ev, err := event.Decode(data)
		if err != nil {
			if errors.Is(err, event.ErrMalformed) {
				f.log.Warn("skipping malformed message", "err", err)
				continue
			}
			return err
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
