package services

import (
	"context"

	"github.com/longregen/roomgate/internal/adapters/tracing"
	"github.com/longregen/roomgate/internal/domain/models"
	"github.com/longregen/roomgate/internal/ports"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type JoinService struct {
	credentials ports.CredentialIssuer
	rooms       ports.RoomEnsurer
	dispatcher  ports.DispatchDeduplicator
	tracer      trace.Tracer
}

func NewJoinService(credentials ports.CredentialIssuer, rooms ports.RoomEnsurer, dispatcher ports.DispatchDeduplicator) *JoinService {
	return &JoinService{
		credentials: credentials,
		rooms:       rooms,
		dispatcher:  dispatcher,
		tracer:      tracing.Tracer("roomgate/join"),
	}
}

// Join issues a credential, makes sure the room exists and asks for an
// agent. Only credential errors reach the caller.
func (s *JoinService) Join(ctx context.Context, roomName, participantName string) (*models.Credential, error) {
	ctx, span := s.tracer.Start(ctx, "join")
	defer span.End()

	cred, err := s.credentials.IssueCredential(roomName, participantName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "credential not issued")
		return nil, err
	}
	span.SetAttributes(tracing.RoomName(cred.RoomName), tracing.Participant(cred.Identity))

	s.rooms.EnsureRoomExists(ctx, cred.RoomName)
	s.dispatcher.RequestDispatch(ctx, cred.RoomName)

	return cred, nil
}

// Issue only mints a credential.
func (s *JoinService) Issue(roomName, participantName string) (*models.Credential, error) {
	return s.credentials.IssueCredential(roomName, participantName)
}
