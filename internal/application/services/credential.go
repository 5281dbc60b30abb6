package services

import (
	"fmt"
	"time"

	"github.com/longregen/roomgate/internal/adapters/metrics"
	"github.com/longregen/roomgate/internal/domain"
	"github.com/longregen/roomgate/internal/domain/models"
	"github.com/longregen/roomgate/internal/ports"
)

// CredentialService builds participant grants and has them signed.
// It keeps no state about issued credentials.
type CredentialService struct {
	minter ports.TokenMinter
	ttl    time.Duration
	now    func() time.Time
}

func NewCredentialService(minter ports.TokenMinter, ttl time.Duration) *CredentialService {
	if ttl <= 0 {
		ttl = models.DefaultCredentialTTL
	}
	return &CredentialService{
		minter: minter,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *CredentialService) IssueCredential(roomName, participantName string) (*models.Credential, error) {
	room, identity, err := ValidateJoinRequest(roomName, participantName)
	if err != nil {
		metrics.CredentialsIssuedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	grant := models.NewGrant(room, identity, s.ttl)
	issuedAt := s.now()

	token, err := s.minter.Sign(grant)
	if err != nil {
		metrics.CredentialsIssuedTotal.WithLabelValues("error").Inc()
		return nil, domain.NewDomainError(domain.ErrSigning, fmt.Sprintf("room %q: %v", room, err))
	}

	metrics.CredentialsIssuedTotal.WithLabelValues("ok").Inc()
	return &models.Credential{
		Token:     token,
		RoomName:  room,
		Identity:  identity,
		ExpiresAt: issuedAt.Add(grant.TTL),
	}, nil
}
