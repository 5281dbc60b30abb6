package models

import (
	"time"
)

type DispatchState string

const (
	DispatchStateReserved  DispatchState = "reserved"
	DispatchStateConfirmed DispatchState = "confirmed"
	DispatchStateFailed    DispatchState = "failed"
)

// DefaultDispatchRetention is how long a confirmed dispatch blocks re-dispatch to the same room.
const DefaultDispatchRetention = time.Hour

// UnknownDispatchID is recorded when the provider accepts a dispatch without returning an id.
const UnknownDispatchID = "dispatched"

// DispatchRecord tracks the agent dispatch cycle of a single room.
// Records are values: every transition produces a new record and the
// store swaps it in atomically, keyed by Room and Token.
type DispatchRecord struct {
	Room        string        `json:"room" msgpack:"room"`
	Token       uint64        `json:"token" msgpack:"token"`
	State       DispatchState `json:"state" msgpack:"state"`
	DispatchID  string        `json:"dispatch_id,omitempty" msgpack:"dispatch_id,omitempty"`
	ReservedAt  time.Time     `json:"reserved_at" msgpack:"reserved_at"`
	ConfirmedAt *time.Time    `json:"confirmed_at,omitempty" msgpack:"confirmed_at,omitempty"`
}

func NewReservation(room string, token uint64, now time.Time) DispatchRecord {
	return DispatchRecord{
		Room:       room,
		Token:      token,
		State:      DispatchStateReserved,
		ReservedAt: now,
	}
}

// Confirm returns the confirmed form of a reservation.
func (r DispatchRecord) Confirm(dispatchID string, at time.Time) DispatchRecord {
	if dispatchID == "" {
		dispatchID = UnknownDispatchID
	}
	confirmedAt := at
	r.State = DispatchStateConfirmed
	r.DispatchID = dispatchID
	r.ConfirmedAt = &confirmedAt
	return r
}

func (r DispatchRecord) IsConfirmed() bool {
	return r.State == DispatchStateConfirmed && r.ConfirmedAt != nil
}

// ExpiresAt returns when a confirmed record stops blocking re-dispatch.
// Reserved records never expire on their own.
func (r DispatchRecord) ExpiresAt(retention time.Duration) (time.Time, bool) {
	if !r.IsConfirmed() {
		return time.Time{}, false
	}
	return r.ConfirmedAt.Add(retention), true
}

// Expired reports whether the record has outlived the retention window at now.
func (r DispatchRecord) Expired(now time.Time, retention time.Duration) bool {
	expiresAt, ok := r.ExpiresAt(retention)
	return ok && !now.Before(expiresAt)
}
