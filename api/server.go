// Package api provides the HTTP REST shim over the research engine. Handlers
// only translate requests and engine errors; all decision logic lives in the
// engine packages.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/config"
	"github.com/quantav/stockscope/internal/snapshot"
	"github.com/quantav/stockscope/internal/source"
	"github.com/quantav/stockscope/pkg/models"
	"github.com/quantav/stockscope/pkg/utils"
)

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	assembler *snapshot.Assembler
	log       zerolog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, assembler *snapshot.Assembler, log zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		assembler: assembler,
		log:       log.With().Str("component", "api").Logger(),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router { return s.router }

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.API.Host, s.cfg.API.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down")
	return srv.Shutdown(ctx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/snapshot/{symbol}", s.handleSnapshot)
		r.Get("/analysis/{symbol}/{section}", s.handleAnalysis)
		r.Get("/research/{symbol}", s.handleResearch)
	})

	return r
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.assembler.Snapshot(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.assembler.Section(r.Context(), chi.URLParam(r, "symbol"), chi.URLParam(r, "section"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	report, err := s.assembler.Research(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// --- Response helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

// writeError maps engine errors onto HTTP statuses: input errors are client
// errors, the no-data hard failure is a 404 distinct from server faults.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var invalidSymbol *utils.ErrInvalidSymbol
	var unknownSection *models.ErrUnknownSection
	switch {
	case errors.As(err, &invalidSymbol), errors.As(err, &unknownSection):
		status = http.StatusBadRequest
	case source.IsNoData(err):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
