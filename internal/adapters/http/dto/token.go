package dto

import (
	"time"

	"github.com/longregen/roomgate/internal/domain/models"
)

type TokenRequest struct {
	RoomName        string `json:"roomName" msgpack:"roomName"`
	ParticipantName string `json:"participantName" msgpack:"participantName"`
}

type TokenResponse struct {
	Token           string    `json:"token" msgpack:"token"`
	RoomName        string    `json:"roomName" msgpack:"roomName"`
	ParticipantName string    `json:"participantName" msgpack:"participantName"`
	ExpiresAt       time.Time `json:"expiresAt" msgpack:"expiresAt"`
}

func NewTokenResponse(cred *models.Credential) *TokenResponse {
	return &TokenResponse{
		Token:           cred.Token,
		RoomName:        cred.RoomName,
		ParticipantName: cred.Identity,
		ExpiresAt:       cred.ExpiresAt,
	}
}
