package dto

import (
	"time"

	"github.com/longregen/roomgate/internal/domain/models"
)

type DispatchResponse struct {
	Room        string     `json:"room" msgpack:"room"`
	State       string     `json:"state" msgpack:"state"`
	DispatchID  string     `json:"dispatchId,omitempty" msgpack:"dispatchId,omitempty"`
	ReservedAt  time.Time  `json:"reservedAt" msgpack:"reservedAt"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty" msgpack:"confirmedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty" msgpack:"expiresAt,omitempty"`
}

type DispatchListResponse struct {
	Dispatches []DispatchResponse `json:"dispatches" msgpack:"dispatches"`
	Total      int                `json:"total" msgpack:"total"`
}

func NewDispatchResponse(rec models.DispatchRecord, retention time.Duration) DispatchResponse {
	resp := DispatchResponse{
		Room:        rec.Room,
		State:       string(rec.State),
		DispatchID:  rec.DispatchID,
		ReservedAt:  rec.ReservedAt,
		ConfirmedAt: rec.ConfirmedAt,
	}
	if expiresAt, ok := rec.ExpiresAt(retention); ok {
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

func NewDispatchListResponse(records []models.DispatchRecord, retention time.Duration) *DispatchListResponse {
	resp := &DispatchListResponse{
		Dispatches: make([]DispatchResponse, 0, len(records)),
		Total:      len(records),
	}
	for _, rec := range records {
		resp.Dispatches = append(resp.Dispatches, NewDispatchResponse(rec, retention))
	}
	return resp
}
