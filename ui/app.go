// Package ui exposes stored pipeline artifacts over HTTP: a JSON API
// for raw artifacts and an HTML rendering of the analysis report.
package ui

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"entrolab/ports"
)

// App is the read-only HTTP surface over an artifact store.
type App struct {
	router *chi.Mux
	store  ports.ArtifactStore
	log    *slog.Logger
	addr   string
}

// Config holds HTTP server configuration.
type Config struct {
	Addr string
}

// NewApp wires middleware and routes around an artifact store.
func NewApp(store ports.ArtifactStore, logger *slog.Logger, cfg Config) *App {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	a := &App{
		router: chi.NewRouter(),
		store:  store,
		log:    logger,
		addr:   addr,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(a.requestLogger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/report", a.handleReport)
	a.router.Get("/api/artifacts", a.handleListArtifacts)
	a.router.Get("/api/artifacts/{name}", a.handleGetArtifact)
}

// Start blocks serving HTTP until the listener fails.
func (a *App) Start() error {
	a.log.Info("artifact server listening", "addr", a.addr)
	return http.ListenAndServe(a.addr, a.router)
}

// Handler returns the configured router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// requestLogger records one structured line per request.
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func (a *App) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Error("encode response", "error", err)
	}
}

func (a *App) respondError(w http.ResponseWriter, status int, msg string) {
	a.respondJSON(w, status, map[string]string{"error": msg})
}
