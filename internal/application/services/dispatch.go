package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/longregen/roomgate/internal/adapters/metrics"
	"github.com/longregen/roomgate/internal/adapters/tracing"
	"github.com/longregen/roomgate/internal/domain"
	"github.com/longregen/roomgate/internal/domain/models"
	"github.com/longregen/roomgate/internal/ports"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultSweepInterval = time.Minute

type DispatchConfig struct {
	// Retention is how long a confirmed dispatch blocks another dispatch to the same room.
	Retention time.Duration

	// Async runs the provider call in a background goroutine so the join
	// request does not wait on it.
	Async bool
}

func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		Retention: models.DefaultDispatchRetention,
		Async:     true,
	}
}

// DispatchService sends at most one agent into a room per dispatch cycle.
// A cycle starts with a reservation and ends when the dispatch fails, the
// confirmed record expires, or the record is forgotten.
type DispatchService struct {
	store    ports.DispatchStore
	provider ports.RoomProvider

	retention time.Duration
	async     bool

	tokens atomic.Uint64
	wg     sync.WaitGroup
	now    func() time.Time
	tracer trace.Tracer
}

func NewDispatchService(store ports.DispatchStore, provider ports.RoomProvider, cfg DispatchConfig) *DispatchService {
	if cfg.Retention <= 0 {
		cfg.Retention = models.DefaultDispatchRetention
	}
	return &DispatchService{
		store:     store,
		provider:  provider,
		retention: cfg.Retention,
		async:     cfg.Async,
		now:       time.Now,
		tracer:    tracing.Tracer("roomgate/dispatch"),
	}
}

func (s *DispatchService) RequestDispatch(ctx context.Context, roomName string) bool {
	if roomName == "" {
		return false
	}

	now := s.now()
	rec := models.NewReservation(roomName, s.tokens.Add(1), now)

	reserved := s.store.Reserve(rec, func(existing models.DispatchRecord) bool {
		return existing.Expired(now, s.retention)
	})
	if !reserved {
		metrics.DispatchRequestsTotal.WithLabelValues("skipped").Inc()
		slog.DebugContext(ctx, "agent already dispatched, skipping", "room", roomName)
		return false
	}

	metrics.DispatchRequestsTotal.WithLabelValues("reserved").Inc()
	s.updateGauge()

	if !s.async {
		s.dispatch(ctx, rec)
		return true
	}

	bgCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatch(bgCtx, rec)
	}()
	return true
}

func (s *DispatchService) dispatch(ctx context.Context, rec models.DispatchRecord) {
	ctx, span := s.tracer.Start(ctx, "dispatch.agent",
		trace.WithAttributes(tracing.RoomName(rec.Room), tracing.DispatchToken(rec.Token)))
	defer span.End()

	start := time.Now()
	dispatchID, err := s.provider.DispatchAgent(ctx, rec.Room)
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.DispatchAttemptsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")

		released := s.store.Release(rec.Room, rec.Token)
		s.updateGauge()
		slog.WarnContext(ctx, "agent dispatch failed, reservation released",
			"room", rec.Room,
			"released", released,
			"error", domain.NewDomainError(domain.ErrDispatch, err.Error()))
		return
	}

	metrics.DispatchAttemptsTotal.WithLabelValues("ok").Inc()
	confirmed := rec.Confirm(dispatchID, s.now())
	span.SetAttributes(tracing.DispatchID(confirmed.DispatchID))

	if !s.store.Update(confirmed) {
		// Forgotten while the call was in flight; the agent is already on its way.
		slog.InfoContext(ctx, "agent dispatched but record was removed meanwhile",
			"room", rec.Room, "dispatch_id", confirmed.DispatchID)
		return
	}
	slog.InfoContext(ctx, "agent dispatched", "room", rec.Room, "dispatch_id", confirmed.DispatchID)
}

func (s *DispatchService) Status(roomName string) (models.DispatchRecord, bool) {
	rec, ok := s.store.Get(roomName)
	if !ok || rec.Expired(s.now(), s.retention) {
		return models.DispatchRecord{}, false
	}
	return rec, true
}

// Snapshot lists the live records, sorted by room.
func (s *DispatchService) Snapshot() []models.DispatchRecord {
	now := s.now()
	all := s.store.List()
	live := make([]models.DispatchRecord, 0, len(all))
	for _, rec := range all {
		if !rec.Expired(now, s.retention) {
			live = append(live, rec)
		}
	}
	return live
}

func (s *DispatchService) Forget(roomName string) bool {
	rec, ok := s.store.Delete(roomName)
	if ok {
		s.updateGauge()
		slog.Info("dispatch record forgotten", "room", roomName, "state", rec.State)
	}
	return ok
}

// Sweep deletes confirmed records whose retention window ended at or before now.
func (s *DispatchService) Sweep(now time.Time) int {
	removed := s.store.DeleteIf(func(rec models.DispatchRecord) bool {
		return rec.Expired(now, s.retention)
	})
	if len(removed) > 0 {
		metrics.DispatchRecordsExpired.Add(float64(len(removed)))
		s.updateGauge()
		slog.Debug("expired dispatch records swept", "count", len(removed))
	}
	return len(removed)
}

// RunSweeper sweeps every interval until ctx is done.
func (s *DispatchService) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Wait blocks until background dispatches finish or ctx is done.
func (s *DispatchService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DispatchService) updateGauge() {
	metrics.DispatchRecordsLive.Set(float64(s.store.Len()))
}
