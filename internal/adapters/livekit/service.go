package livekit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lkproto "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/longregen/roomgate/internal/adapters/circuitbreaker"
	"github.com/longregen/roomgate/internal/adapters/retry"
	"github.com/longregen/roomgate/internal/adapters/tracing"
	"github.com/longregen/roomgate/internal/domain"
	"github.com/twitchtv/twirp"
	"go.opentelemetry.io/otel/codes"
)

type ServiceConfig struct {
	URL       string
	APIKey    string
	APISecret string

	// AgentName selects the agent worker to dispatch. Empty dispatches the
	// default worker.
	AgentName     string
	AgentMetadata string

	EmptyTimeout    uint32 // seconds an empty room lingers before LiveKit closes it
	MaxParticipants uint32

	BreakerFailures int
	BreakerTimeout  time.Duration

	// Retry applies to room creation on any transient error, and to agent
	// dispatch only when the request provably never reached the server.
	Retry retry.BackoffConfig
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		URL:             "ws://localhost:7880",
		EmptyTimeout:    300,
		MaxParticipants: 0,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
		Retry:           retry.DefaultConfig(),
	}
}

// Service is the LiveKit room provider: room creation and agent dispatch
// through the server API, guarded by a circuit breaker.
type Service struct {
	config         *ServiceConfig
	roomClient     *lksdk.RoomServiceClient
	dispatchClient *lksdk.AgentDispatchClient
	breaker        *circuitbreaker.CircuitBreaker
}

func NewService(config *ServiceConfig) (*Service, error) {
	if config == nil {
		config = DefaultServiceConfig()
	}

	if config.URL == "" {
		return nil, fmt.Errorf("LiveKit URL is required")
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("LiveKit API key is required")
	}

	if config.APISecret == "" {
		return nil, fmt.Errorf("LiveKit API secret is required")
	}

	if config.BreakerFailures == 0 {
		config.BreakerFailures = 5
	}
	if config.BreakerTimeout == 0 {
		config.BreakerTimeout = 30 * time.Second
	}
	if config.Retry.Multiplier < 1 {
		config.Retry.Multiplier = 2.0
	}

	return &Service{
		config:         config,
		roomClient:     lksdk.NewRoomServiceClient(config.URL, config.APIKey, config.APISecret),
		dispatchClient: lksdk.NewAgentDispatchServiceClient(config.URL, config.APIKey, config.APISecret),
		breaker:        circuitbreaker.New("livekit", config.BreakerFailures, config.BreakerTimeout),
	}, nil
}

func (s *Service) CreateRoom(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("room name is required")
	}

	ctx, span := tracing.Tracer("roomgate/livekit").Start(ctx, "livekit.CreateRoom")
	defer span.End()
	span.SetAttributes(tracing.RoomName(name))

	metadata, err := json.Marshal(map[string]string{
		"created_by": "roomgate",
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal room metadata: %w", err)
	}

	req := &lkproto.CreateRoomRequest{
		Name:            name,
		EmptyTimeout:    s.config.EmptyTimeout,
		MaxParticipants: s.config.MaxParticipants,
		Metadata:        string(metadata),
	}

	exists := false
	err = retry.WithBackoff(ctx, s.config.Retry, retry.IsTransient, func(ctx context.Context) error {
		return s.breaker.Execute(ctx, func(ctx context.Context) error {
			_, err := s.roomClient.CreateRoom(ctx, req)
			if isAlreadyExists(err) {
				// The room exists, so the provider is healthy.
				exists = true
				return nil
			}
			return err
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create room failed")
		return fmt.Errorf("failed to create room: %w", err)
	}
	if exists {
		return domain.ErrRoomExists
	}
	return nil
}

func (s *Service) DispatchAgent(ctx context.Context, roomName string) (string, error) {
	if roomName == "" {
		return "", fmt.Errorf("room name is required")
	}

	ctx, span := tracing.Tracer("roomgate/livekit").Start(ctx, "livekit.CreateDispatch")
	defer span.End()
	span.SetAttributes(tracing.RoomName(roomName))

	req := &lkproto.CreateAgentDispatchRequest{
		Room:      roomName,
		AgentName: s.config.AgentName,
		Metadata:  s.config.AgentMetadata,
	}

	var dispatch *lkproto.AgentDispatch
	err := retry.WithBackoff(ctx, s.config.Retry, retry.IsUndelivered, func(ctx context.Context) error {
		return s.breaker.Execute(ctx, func(ctx context.Context) error {
			var err error
			dispatch, err = s.dispatchClient.CreateDispatch(ctx, req)
			return err
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create dispatch failed")
		return "", fmt.Errorf("failed to dispatch agent: %w", err)
	}

	dispatchID := dispatch.GetId()
	span.SetAttributes(tracing.DispatchID(dispatchID))
	return dispatchID, nil
}

// BreakerState exposes the provider circuit state for health reporting.
func (s *Service) BreakerState() circuitbreaker.State {
	return s.breaker.State()
}

func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrRoomExists) {
		return true
	}
	var twerr twirp.Error
	return errors.As(err, &twerr) && twerr.Code() == twirp.AlreadyExists
}
