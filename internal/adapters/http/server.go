package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/longregen/roomgate/internal/adapters/http/handlers"
	"github.com/longregen/roomgate/internal/adapters/http/middleware"
	"github.com/longregen/roomgate/internal/adapters/tracing"
	"github.com/longregen/roomgate/internal/config"
	"github.com/longregen/roomgate/internal/ports"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	config     *config.Config
	version    string
	router     *chi.Mux
	httpServer *http.Server

	joins      ports.JoinService
	dispatcher ports.DispatchDeduplicator
	webhooks   ports.WebhookReceiver
	provider   handlers.ProviderHealth
	records    handlers.DispatchCounter
	idGen      ports.IDGenerator
}

type ServerDeps struct {
	Joins      ports.JoinService
	Dispatcher ports.DispatchDeduplicator
	Webhooks   ports.WebhookReceiver   // optional
	Provider   handlers.ProviderHealth  // optional
	Records    handlers.DispatchCounter // optional
	IDGen      ports.IDGenerator
}

func NewServer(cfg *config.Config, version string, deps ServerDeps) *Server {
	s := &Server{
		config:     cfg,
		version:    version,
		joins:      deps.Joins,
		dispatcher: deps.Dispatcher,
		webhooks:   deps.Webhooks,
		provider:   deps.Provider,
		records:    deps.Records,
		idGen:      deps.IDGen,
	}

	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(s.idGen))
	r.Use(tracing.Middleware(s.config.Telemetry.ServiceName))
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	healthHandler := handlers.NewHealthHandlerWithDeps(s.version, s.provider, s.records)
	r.Get("/health", healthHandler.Handle)
	r.Get("/health/detailed", healthHandler.HandleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	tokenHandler := handlers.NewTokenHandler(s.joins)
	r.Post("/token", tokenHandler.Create)
	r.Get("/token", tokenHandler.Get)

	if s.webhooks != nil {
		webhookHandler := handlers.NewWebhookHandler(s.webhooks, s.dispatcher)
		r.Post("/webhook/livekit", webhookHandler.Handle)
	}

	configHandler := handlers.NewConfigHandler(s.config)
	r.Get("/api/v1/config", configHandler.GetPublicConfig)

	r.Route("/api/v1/dispatches", func(r chi.Router) {
		r.Use(middleware.AdminAuth(s.config.Server.AdminToken))

		dispatchHandler := handlers.NewDispatchHandler(s.dispatcher, s.config.Dispatch.Retention.Std())
		r.Get("/", dispatchHandler.List)
		r.Get("/{room}", dispatchHandler.Get)
		r.Delete("/{room}", dispatchHandler.Delete)
	})

	s.router = r
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	slog.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
