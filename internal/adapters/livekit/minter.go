package livekit

import (
	"fmt"

	"github.com/livekit/protocol/auth"
	"github.com/longregen/roomgate/internal/domain/models"
)

// Minter signs grants into LiveKit access tokens. It needs only the API key
// pair and makes no network calls.
type Minter struct {
	apiKey    string
	apiSecret string
}

func NewMinter(apiKey, apiSecret string) (*Minter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LiveKit API key is required")
	}
	if apiSecret == "" {
		return nil, fmt.Errorf("LiveKit API secret is required")
	}
	return &Minter{apiKey: apiKey, apiSecret: apiSecret}, nil
}

func (m *Minter) Sign(grant models.Grant) (string, error) {
	canPublish := grant.Capabilities.Publish
	canSubscribe := grant.Capabilities.Subscribe
	canPublishData := grant.Capabilities.PublishData

	at := auth.NewAccessToken(m.apiKey, m.apiSecret)
	at.SetVideoGrant(&auth.VideoGrant{
		RoomJoin:       grant.Capabilities.Join,
		Room:           grant.Room,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}).
		SetIdentity(grant.Identity).
		SetName(grant.Name).
		SetValidFor(grant.TTL)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
