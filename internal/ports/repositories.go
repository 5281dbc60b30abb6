package ports

import (
	"github.com/longregen/roomgate/internal/domain/models"
)

// DispatchStore holds dispatch records keyed by room name. Every method
// is safe for concurrent use and atomic per room.
type DispatchStore interface {
	// Reserve stores rec unless a record for rec.Room already exists.
	// An existing record for which replace returns true is swapped out
	// for rec. Reports whether rec was stored.
	Reserve(rec models.DispatchRecord, replace func(existing models.DispatchRecord) bool) bool

	// Update replaces the record for rec.Room only while the stored record
	// carries the same token.
	Update(rec models.DispatchRecord) bool

	// Release deletes the record for room only while it carries token.
	Release(room string, token uint64) bool

	// Delete removes whatever record room has.
	Delete(room string) (models.DispatchRecord, bool)

	// DeleteIf removes every record for which match returns true, checking
	// each record atomically against its current value.
	DeleteIf(match func(models.DispatchRecord) bool) []models.DispatchRecord

	Get(room string) (models.DispatchRecord, bool)
	List() []models.DispatchRecord
	Len() int
}

// IDGenerator generates unique IDs
type IDGenerator interface {
	// GenerateRequestID generates a new request ID (req_xxx)
	GenerateRequestID() string
}
