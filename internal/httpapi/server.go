// Package httpapi exposes the captured event queue over HTTP for the
// recorder's external consumers (the workflow generator polls these
// endpoints while a recording is in progress).
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/HarishgunaS/sisypho-sdk/internal/capture"
	"github.com/HarishgunaS/sisypho-sdk/internal/model"
)

// Server serves the event transport endpoints:
//
//	GET    /events  JSON array of captured events (?drain=true to consume)
//	GET    /count   {"count": N}
//	GET    /stats   counts grouped by kind and source, time range
//	DELETE /events  clears the queue
type Server struct {
	queue *capture.EventQueue
	log   *slog.Logger
	http  *http.Server
}

// NewServer creates the transport bound to addr.
func NewServer(addr string, queue *capture.EventQueue, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{queue: queue, log: log}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table; split out so tests can drive it through
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/count", s.handleCount)
	mux.HandleFunc("/stats", s.handleStats)
	return corsOpen(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.log.Info("event transport listening", "addr", s.http.Addr)

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var events []model.CapturedEvent
		if r.URL.Query().Get("drain") == "true" {
			events = s.queue.Drain()
		} else {
			events = s.queue.Snapshot()
		}
		if events == nil {
			events = []model.CapturedEvent{}
		}
		writeJSON(w, http.StatusOK, events)
	case http.MethodDelete:
		s.queue.Clear()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": s.queue.Count()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.queue.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

// corsOpen allows browser extensions and local tooling to poll the recorder
// from any origin.
func corsOpen(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
