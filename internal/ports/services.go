package ports

import (
	"context"
	"net/http"

	"github.com/longregen/roomgate/internal/domain/models"
)

// TokenMinter signs a grant into an opaque room access token
type TokenMinter interface {
	Sign(grant models.Grant) (string, error)
}

// RoomProvider is the media server's room and agent control plane.
// CreateRoom returns domain.ErrRoomExists when the room is already there.
type RoomProvider interface {
	CreateRoom(ctx context.Context, name string) error
	DispatchAgent(ctx context.Context, roomName string) (string, error)
}

// CredentialIssuer mints scoped room credentials
type CredentialIssuer interface {
	IssueCredential(roomName, participantName string) (*models.Credential, error)
}

// RoomEnsurer makes a best-effort attempt to create a room. It never fails.
type RoomEnsurer interface {
	EnsureRoomExists(ctx context.Context, roomName string)
}

// DispatchDeduplicator guarantees at most one agent dispatch per room cycle
type DispatchDeduplicator interface {
	// RequestDispatch reserves the room and dispatches an agent, or does
	// nothing when the room already has a live record. It reports whether
	// this call made the reservation.
	RequestDispatch(ctx context.Context, roomName string) bool
	Status(roomName string) (models.DispatchRecord, bool)
	Snapshot() []models.DispatchRecord
	Forget(roomName string) bool
}

// JoinService is the request-level flow behind the token endpoints
type JoinService interface {
	Join(ctx context.Context, roomName, participantName string) (*models.Credential, error)
	Issue(roomName, participantName string) (*models.Credential, error)
}

// WebhookReceiver verifies and decodes media server webhook requests
type WebhookReceiver interface {
	Receive(r *http.Request) (*models.RoomEvent, error)
}
