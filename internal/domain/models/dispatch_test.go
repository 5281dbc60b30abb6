package models

import (
	"testing"
	"time"
)

func TestDispatchRecord_Confirm(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := NewReservation("alpha", 7, now)

	if rec.State != DispatchStateReserved {
		t.Fatalf("expected reserved, got %s", rec.State)
	}
	if rec.IsConfirmed() {
		t.Fatal("reservation should not be confirmed")
	}

	confirmed := rec.Confirm("AD_123", now.Add(time.Second))
	if !confirmed.IsConfirmed() {
		t.Fatal("expected confirmed record")
	}
	if confirmed.DispatchID != "AD_123" {
		t.Errorf("expected dispatch id AD_123, got %s", confirmed.DispatchID)
	}
	if confirmed.Token != 7 || confirmed.Room != "alpha" {
		t.Errorf("confirm must keep room and token, got %s/%d", confirmed.Room, confirmed.Token)
	}
	if rec.State != DispatchStateReserved {
		t.Error("confirm must not mutate the original record")
	}
}

func TestDispatchRecord_ConfirmWithoutID(t *testing.T) {
	rec := NewReservation("alpha", 1, time.Now()).Confirm("", time.Now())
	if rec.DispatchID != UnknownDispatchID {
		t.Errorf("expected sentinel dispatch id, got %q", rec.DispatchID)
	}
}

func TestDispatchRecord_Expired(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	retention := time.Hour

	tests := []struct {
		name    string
		record  DispatchRecord
		now     time.Time
		expired bool
	}{
		{
			name:    "reserved never expires",
			record:  NewReservation("r", 1, start),
			now:     start.Add(48 * time.Hour),
			expired: false,
		},
		{
			name:    "confirmed within window",
			record:  NewReservation("r", 1, start).Confirm("d", start),
			now:     start.Add(59 * time.Minute),
			expired: false,
		},
		{
			name:    "confirmed at window boundary",
			record:  NewReservation("r", 1, start).Confirm("d", start),
			now:     start.Add(time.Hour),
			expired: true,
		},
		{
			name:    "confirmed past window",
			record:  NewReservation("r", 1, start).Confirm("d", start),
			now:     start.Add(2 * time.Hour),
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Expired(tt.now, retention); got != tt.expired {
				t.Errorf("expected expired=%v, got %v", tt.expired, got)
			}
		})
	}
}

func TestNewGrant(t *testing.T) {
	g := NewGrant("alpha", "bob", 0)

	if g.Room != "alpha" || g.Identity != "bob" || g.Name != "bob" {
		t.Errorf("unexpected grant identity fields: %+v", g)
	}
	if g.TTL != DefaultCredentialTTL {
		t.Errorf("expected default TTL, got %v", g.TTL)
	}
	if g.Capabilities != ParticipantCapabilities() {
		t.Errorf("expected fixed participant capabilities, got %+v", g.Capabilities)
	}
}
