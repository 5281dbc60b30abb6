package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/longregen/roomgate/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

// Shared mock implementations for testing

type MockTokenMinter struct {
	mock.Mock
}

func (m *MockTokenMinter) Sign(grant models.Grant) (string, error) {
	args := m.Called(grant)
	return args.String(0), args.Error(1)
}

// fakeProvider counts calls. When gate is set, DispatchAgent blocks until
// it is closed so tests can hold a dispatch in flight.
type fakeProvider struct {
	createCalls   atomic.Int32
	dispatchCalls atomic.Int32

	createErr error

	mu          sync.Mutex
	dispatchErr error
	dispatchID  string
	gate        chan struct{}
	rooms       []string
	ctxErrs     []error
}

func (p *fakeProvider) CreateRoom(ctx context.Context, name string) error {
	p.createCalls.Add(1)
	return p.createErr
}

func (p *fakeProvider) DispatchAgent(ctx context.Context, roomName string) (string, error) {
	p.dispatchCalls.Add(1)

	p.mu.Lock()
	gate := p.gate
	p.rooms = append(p.rooms, roomName)
	p.mu.Unlock()

	if gate != nil {
		<-gate
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return p.dispatchID, p.dispatchErr
}

func (p *fakeProvider) contextErrors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error(nil), p.ctxErrs...)
}

func (p *fakeProvider) setDispatchErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatchErr = err
}

func (p *fakeProvider) dispatchedRooms() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.rooms...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingEnsurer struct {
	rooms []string
}

func (r *recordingEnsurer) EnsureRoomExists(ctx context.Context, roomName string) {
	r.rooms = append(r.rooms, roomName)
}

type recordingDispatcher struct {
	rooms []string
}

func (r *recordingDispatcher) RequestDispatch(ctx context.Context, roomName string) bool {
	r.rooms = append(r.rooms, roomName)
	return true
}

func (r *recordingDispatcher) Status(roomName string) (models.DispatchRecord, bool) {
	return models.DispatchRecord{}, false
}

func (r *recordingDispatcher) Snapshot() []models.DispatchRecord { return nil }

func (r *recordingDispatcher) Forget(roomName string) bool { return false }
