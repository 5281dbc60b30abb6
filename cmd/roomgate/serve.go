package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/longregen/roomgate/internal/adapters/http"
	"github.com/longregen/roomgate/internal/adapters/id"
	"github.com/longregen/roomgate/internal/adapters/livekit"
	"github.com/longregen/roomgate/internal/adapters/memory"
	"github.com/longregen/roomgate/internal/adapters/retry"
	"github.com/longregen/roomgate/internal/adapters/tracing"
	"github.com/longregen/roomgate/internal/application/services"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the roomgate HTTP server.

POST /token issues a room credential, creates the room if needed and
dispatches one agent per room. Dispatch state lives in memory only.

Required configuration:
  - LiveKit (LIVEKIT_URL, LIVEKIT_API_KEY, LIVEKIT_API_SECRET)

Optional:
  - Agent name (ROOMGATE_AGENT_NAME)
  - OTLP export (ROOMGATE_OTLP_ENDPOINT)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// runServer wires the services and runs the HTTP server and the dispatch
// sweeper until SIGINT or SIGTERM.
func runServer(ctx context.Context) error {
	tel, err := tracing.Init(tracing.Config{
		ServiceName:  cfg.Telemetry.ServiceName,
		Environment:  cfg.Telemetry.Environment,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Stdout:       cfg.Telemetry.Stdout,
		LogLevel:     cfg.SlogLevel(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	slog.SetDefault(tel.Logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	slog.Info("starting roomgate",
		"version", version,
		"addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		"livekit", cfg.LiveKit.URL,
		"agent", valueOrDefault(cfg.LiveKit.AgentName, "(default)"),
		"dispatch_retention", cfg.Dispatch.Retention.Std(),
	)

	minter, err := livekit.NewMinter(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret)
	if err != nil {
		return fmt.Errorf("failed to create token minter: %w", err)
	}

	backoff := retry.DefaultConfig()
	backoff.MaxRetries = cfg.LiveKit.MaxRetries

	liveKitService, err := livekit.NewService(&livekit.ServiceConfig{
		URL:             cfg.LiveKit.URL,
		APIKey:          cfg.LiveKit.APIKey,
		APISecret:       cfg.LiveKit.APISecret,
		AgentName:       cfg.LiveKit.AgentName,
		AgentMetadata:   cfg.LiveKit.AgentMetadata,
		EmptyTimeout:    uint32(cfg.LiveKit.EmptyTimeout),
		MaxParticipants: uint32(cfg.LiveKit.MaxParticipants),
		BreakerFailures: cfg.LiveKit.BreakerFailures,
		BreakerTimeout:  cfg.LiveKit.BreakerTimeout.Std(),
		Retry:           backoff,
	})
	if err != nil {
		return fmt.Errorf("failed to create LiveKit service: %w", err)
	}

	webhooks, err := livekit.NewWebhookReceiver(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret)
	if err != nil {
		return fmt.Errorf("failed to create webhook receiver: %w", err)
	}

	store := memory.NewDispatchStore()
	dispatcher := services.NewDispatchService(store, liveKitService, services.DispatchConfig{
		Retention: cfg.Dispatch.Retention.Std(),
		Async:     cfg.Dispatch.Async,
	})
	joins := services.NewJoinService(
		services.NewCredentialService(minter, cfg.Credential.TTL.Std()),
		services.NewRoomService(liveKitService),
		dispatcher,
	)

	server := http.NewServer(cfg, version, http.ServerDeps{
		Joins:      joins,
		Dispatcher: dispatcher,
		Webhooks:   webhooks,
		Provider:   liveKitService,
		Records:    store,
		IDGen:      id.New(),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		return dispatcher.RunSweeper(gctx, cfg.Dispatch.SweepInterval.Std())
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()

		err := server.Stop(shutdownCtx)
		if waitErr := dispatcher.Wait(shutdownCtx); waitErr != nil {
			slog.Warn("in-flight agent dispatches did not finish before shutdown", "error", waitErr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("roomgate stopped")
	return nil
}
