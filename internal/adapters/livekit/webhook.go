package livekit

import (
	"fmt"
	"net/http"

	"github.com/livekit/protocol/auth"
	lkproto "github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/webhook"
	"github.com/longregen/roomgate/internal/domain/models"
)

// WebhookReceiver authenticates LiveKit webhook requests against the API key pair.
type WebhookReceiver struct {
	provider auth.KeyProvider
}

func NewWebhookReceiver(apiKey, apiSecret string) (*WebhookReceiver, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("LiveKit API key and secret are required for webhooks")
	}
	return &WebhookReceiver{provider: auth.NewSimpleKeyProvider(apiKey, apiSecret)}, nil
}

// Receive verifies the request signature and decodes the event.
func (w *WebhookReceiver) Receive(r *http.Request) (*models.RoomEvent, error) {
	event, err := webhook.ReceiveWebhookEvent(r, w.provider)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook: %w", err)
	}
	return toRoomEvent(event), nil
}

func toRoomEvent(event *lkproto.WebhookEvent) *models.RoomEvent {
	return &models.RoomEvent{
		ID:       event.GetId(),
		Event:    event.GetEvent(),
		RoomName: event.GetRoom().GetName(),
	}
}
