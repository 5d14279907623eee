// Package httpapi exposes the chat, search, feedback and admin
// endpoints over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tda234574534243/law-advisor/internal/bot"
	"github.com/tda234574534243/law-advisor/internal/conversation"
	"github.com/tda234574534243/law-advisor/internal/learning"
	"github.com/tda234574534243/law-advisor/internal/model"
)

// Searcher answers raw retrieval requests and reloads index artifacts
// after a rebuild.
type Searcher interface {
	Retrieve(ctx context.Context, query string, k int, mode model.RetrievalMode) []model.RankedHit
	Reload() error
}

// Server holds the HTTP surface and its collaborators.
type Server struct {
	bot      *bot.Bot
	searcher Searcher
	rebuild  func(ctx context.Context) error
	learning *learning.Engine
	sessions *conversation.Manager
	cfg      model.ServerConfig
	limiter  *clientLimiter
	logger   *slog.Logger
	router   *mux.Router
}

// New assembles the router. rebuild re-runs the index build and is
// followed by a Searcher.Reload, so in-flight queries swap atomically
// to the fresh artifacts.
func New(b *bot.Bot, searcher Searcher, rebuild func(ctx context.Context) error, learn *learning.Engine, sessions *conversation.Manager, cfg model.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		bot:      b,
		searcher: searcher,
		rebuild:  rebuild,
		learning: learn,
		sessions: sessions,
		cfg:      cfg,
		limiter:  newClientLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:   logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.rateLimit)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodPost)
	r.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/api/feedback", s.handleFeedback).Methods(http.MethodPost)
	r.HandleFunc("/api/learning-stats", s.handleLearningStats).Methods(http.MethodGet)
	r.HandleFunc("/api/session/create", s.handleCreateSession).Methods(http.MethodPost)
	r.HandleFunc("/api/session/{id}/stats", s.handleSessionStats).Methods(http.MethodGet)
	r.HandleFunc("/api/session/{id}/context", s.handleSessionContext).Methods(http.MethodGet)
	r.HandleFunc("/api/build_index", s.handleBuildIndex).Methods(http.MethodPost)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.RequestTimeout,
		WriteTimeout:      s.cfg.RequestTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("http server listening", "addr", s.cfg.Addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}
