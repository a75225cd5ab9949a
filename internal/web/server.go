// Package web serves the trip HTTP API with its live event stream.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hpungsan/indotrip/internal/config"
	"github.com/hpungsan/indotrip/internal/live"
	"github.com/hpungsan/indotrip/internal/store"
)

const shutdownTimeout = 10 * time.Second

// NewHandler builds the routed, middleware-wrapped API handler.
func NewHandler(st *store.Store, hub *live.Hub, cfg *config.Config, log zerolog.Logger) http.Handler {
	log = log.With().Str("component", "web").Logger()
	keepalive := cfg.KeepAlive()
	if keepalive <= 0 {
		keepalive = 25 * time.Second
	}
	h := &Handlers{
		store:     st,
		hub:       hub,
		cfg:       cfg,
		log:       log,
		keepalive: keepalive,
		started:   time.Now(),
	}

	root := mux.NewRouter()
	root.Use(recoverer(log), requestLogger(log))

	api := root.PathPrefix("/api/trips").Subrouter()
	api.HandleFunc("", h.HandleCreateTrip).Methods(http.MethodPost)
	api.HandleFunc("", h.HandleListTrips).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.HandleGetTrip).Methods(http.MethodGet)
	api.HandleFunc("/{id}/events", h.HandleEvents).Methods(http.MethodGet)
	api.HandleFunc("/{id}/join", h.HandleJoin).Methods(http.MethodPost)
	api.HandleFunc("/{id}/proposals", h.HandleAddProposal).Methods(http.MethodPost)
	api.HandleFunc("/{id}/votes", h.HandleVote).Methods(http.MethodPost)
	api.HandleFunc("/{id}/itinerary/generate", h.HandleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/{id}/itinerary", h.HandleItinerary).Methods(http.MethodGet)

	root.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	var handler http.Handler = root
	if len(cfg.CORSOrigins) > 0 {
		handler = handlers.CORS(
			handlers.AllowedOrigins(cfg.CORSOrigins),
			handlers.AllowedHeaders([]string{"Content-Type"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		)(handler)
	}
	return securityHeaders(handler)
}

// NewServer creates the HTTP server. Closing the hub on shutdown ends open
// event streams so Shutdown does not wait on them.
func NewServer(st *store.Store, hub *live.Hub, cfg *config.Config, log zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:           NewHandler(st, hub, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	srv.RegisterOnShutdown(hub.Close)
	return srv
}

// Run serves until SIGINT/SIGTERM or a server error, then shuts down and
// flushes the store.
func Run(srv *http.Server, st *store.Store, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", srv.Addr).Msg("indotrip API listening")
	if strings.HasPrefix(srv.Addr, "0.0.0.0") || strings.HasPrefix(srv.Addr, "[::]") || strings.HasPrefix(srv.Addr, ":") {
		log.Warn().Msg("server is binding to all interfaces and may be accessible from the network")
	}

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("final flush failed")
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}
