package server

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"worldstats/internal/config"
	"worldstats/internal/dashboard"
	"worldstats/internal/dataset"
)

func Run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	tables, err := dataset.Generate(cfg.Seed, cfg.Players, cfg.MaxDays)
	if err != nil {
		return err
	}
	log.Info().
		Int64("seed", cfg.Seed).
		Int("players", cfg.Players).
		Int("max_days", cfg.MaxDays).
		Int("activity_rows", len(tables.Activity)).
		Int("mining_rows", len(tables.Mining)).
		Msg("datasets generated")

	store := dashboard.NewStore(tables, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	srv := &Server{Store: store}

	addr := "0.0.0.0:" + cfg.Port
	log.Info().Str("addr", addr).Msg("server listening")
	return http.ListenAndServe(addr, srv.routes())
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSnapshot)
		r.Put("/sessions/{id}/params", s.handleSetParams)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Get("/sessions/{id}/events", s.handleEvents)
		r.Get("/sessions/{id}/live", s.handleLive)
		r.Get("/meta", s.handleMeta)
		r.Get("/raw/{table}", s.handleRaw)
	})
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestLogger logs each request with method, path, status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
