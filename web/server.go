// Package web serves the BAL toolchain over HTTP: parse and compile
// endpoints, stored program CRUD, SVG rendering and a WebSocket for
// live editor feedback.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/baleybots/go-bal/cache"
	"github.com/baleybots/go-bal/config"
	"github.com/baleybots/go-bal/eventlog"
	"github.com/baleybots/go-bal/store"
	"github.com/baleybots/go-bal/visual"
)

type Server struct {
	store     *store.Store
	results   *cache.ResultCache
	graphs    *cache.GraphCache
	events    *eventlog.Log
	hub       *Hub
	cfg       config.WebConfig
	version   string
	startedAt time.Time
}

// NewServer wires the HTTP layer. The event log and store may be nil;
// the corresponding endpoints then degrade gracefully.
func NewServer(s *store.Store, events *eventlog.Log, cfg config.WebConfig, cacheSize int, version string, opts ...visual.Option) *Server {
	return &Server{
		store:     s,
		results:   cache.NewResultCache(cacheSize),
		graphs:    cache.NewGraphCache(cacheSize, opts...),
		events:    events,
		hub:       NewHub(),
		cfg:       cfg,
		version:   version,
		startedAt: time.Now(),
	}
}

func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	mux := http.NewServeMux()
	s.registerAPI(mux)
	mux.HandleFunc("/api/ws", s.handleWebSocket)

	handler := s.withMiddleware(mux)
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	server := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	slog.Info("web server listening", "addr", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerAPI(mux)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	return s.withMiddleware(mux)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/") && s.cfg.Auth != "" {
			if _, pass, ok := r.BasicAuth(); !ok || pass != s.cfg.Auth {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// record appends a compile event when an event log is configured.
func (s *Server) record(kind, source string, entities, errors int, start time.Time) {
	if s.events == nil {
		return
	}
	err := s.events.Append(eventlog.Event{
		Kind:       kind,
		SourceHash: eventlog.HashSource(source),
		Entities:   entities,
		Errors:     errors,
		DurationMS: time.Since(start).Milliseconds(),
	})
	if err != nil {
		slog.Warn("event log append failed", "error", err)
	}
}
