package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/longregen/roomgate/internal/adapters/metrics"
	"github.com/longregen/roomgate/internal/domain"
	"github.com/longregen/roomgate/internal/ports"
)

// RoomService creates rooms on a best-effort basis. The provider is the
// authority on room existence, so creation errors are logged and dropped.
type RoomService struct {
	provider ports.RoomProvider
}

func NewRoomService(provider ports.RoomProvider) *RoomService {
	return &RoomService{provider: provider}
}

func (s *RoomService) EnsureRoomExists(ctx context.Context, roomName string) {
	err := s.provider.CreateRoom(ctx, roomName)
	switch {
	case err == nil:
		metrics.RoomEnsureTotal.WithLabelValues("created").Inc()
		slog.InfoContext(ctx, "room created", "room", roomName)
	case errors.Is(err, domain.ErrRoomExists):
		metrics.RoomEnsureTotal.WithLabelValues("exists").Inc()
		slog.DebugContext(ctx, "room already exists", "room", roomName)
	default:
		metrics.RoomEnsureTotal.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "room ensure failed, continuing",
			"room", roomName,
			"error", domain.NewDomainError(domain.ErrRoomEnsure, err.Error()))
	}
}
