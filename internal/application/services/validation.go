package services

import (
	"strings"

	"github.com/longregen/roomgate/internal/domain"
)

// ValidateRequired trims value and checks that something is left
func ValidateRequired(value string, fieldName string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", domain.NewDomainError(domain.ErrValidation, fieldName+" is required")
	}
	return trimmed, nil
}

// ValidateJoinRequest returns the trimmed room and participant names
func ValidateJoinRequest(roomName, participantName string) (string, string, error) {
	room, err := ValidateRequired(roomName, "room name")
	if err != nil {
		return "", "", err
	}
	participant, err := ValidateRequired(participantName, "participant name")
	if err != nil {
		return "", "", err
	}
	return room, participant, nil
}
