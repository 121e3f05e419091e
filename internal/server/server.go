// Package server is the list service: a JSON REST API over sqlite plus a
// websocket feed that pushes one event per successful mutation.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Addr            string
	Username        string
	Password        string
	RequestTimeout  time.Duration
	PingTimeout     time.Duration
	IdleTimeout     time.Duration
	BroadcastBuffer int
}

func DefaultConfig() Config {
	return Config{
		Addr:            "0.0.0.0:9000",
		Username:        "listclient",
		RequestTimeout:  4 * time.Second,
		PingTimeout:     4 * time.Second,
		IdleTimeout:     60 * time.Second,
		BroadcastBuffer: 32,
	}
}

type Server struct {
	cfg      Config
	db       *DB
	hub      *Hub
	metrics  *Metrics
	registry *prometheus.Registry
	upgrader websocket.Upgrader
	log      *slog.Logger
	done     chan struct{}
}

// New wires a server around an open database. Zero config fields take their
// defaults.
func New(cfg Config, db *DB, log *slog.Logger) *Server {
	def := DefaultConfig()
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	if cfg.BroadcastBuffer <= 0 {
		cfg.BroadcastBuffer = def.BroadcastBuffer
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "server")

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	return &Server{
		cfg:      cfg,
		db:       db,
		hub:      NewHub(cfg.BroadcastBuffer, metrics, log),
		metrics:  metrics,
		registry: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:  log,
		done: make(chan struct{}),
	}
}

// Handler returns the routes. /ws and /metrics sit outside basic auth and
// the request timeout.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.Methods(http.MethodGet).Path("/ws").HandlerFunc(s.serveWS)
	r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	api := r.NewRoute().Subrouter()
	api.Use(s.basicAuth, s.timeout)
	api.Methods(http.MethodGet).Path("/lists").HandlerFunc(s.getLists)
	api.Methods(http.MethodPost).Path("/lists").HandlerFunc(s.postList)
	api.Methods(http.MethodGet).Path("/items").HandlerFunc(s.getItems)
	api.Methods(http.MethodPost).Path("/items").HandlerFunc(s.postItem)
	api.Methods(http.MethodGet).Path("/lists/{id:[0-9]+}").HandlerFunc(s.getList)
	api.Methods(http.MethodPatch).Path("/lists/{id:[0-9]+}").HandlerFunc(s.patchList)
	api.Methods(http.MethodDelete).Path("/lists/{id:[0-9]+}").HandlerFunc(s.deleteList)
	api.Methods(http.MethodGet).Path("/lists/{id:[0-9]+}/items").HandlerFunc(s.getListItems)
	api.Methods(http.MethodGet).Path("/items/{id:[0-9]+}").HandlerFunc(s.getItem)
	api.Methods(http.MethodPatch).Path("/items/{id:[0-9]+}").HandlerFunc(s.patchItem)
	api.Methods(http.MethodDelete).Path("/items/{id:[0-9]+}").HandlerFunc(s.deleteItem)
	return r
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// websocket handlers are hijacked and not tracked by Shutdown
		close(s.done)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
