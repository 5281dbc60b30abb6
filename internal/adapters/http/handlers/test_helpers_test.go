package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/longregen/roomgate/internal/domain/models"
	"github.com/stretchr/testify/mock"
)

// Shared mock implementations for testing

type MockJoinService struct {
	mock.Mock
}

func (m *MockJoinService) Join(ctx context.Context, roomName, participantName string) (*models.Credential, error) {
	args := m.Called(ctx, roomName, participantName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockJoinService) Issue(roomName, participantName string) (*models.Credential, error) {
	args := m.Called(roomName, participantName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) RequestDispatch(ctx context.Context, roomName string) bool {
	return m.Called(ctx, roomName).Bool(0)
}

func (m *MockDispatcher) Status(roomName string) (models.DispatchRecord, bool) {
	args := m.Called(roomName)
	return args.Get(0).(models.DispatchRecord), args.Bool(1)
}

func (m *MockDispatcher) Snapshot() []models.DispatchRecord {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.DispatchRecord)
}

func (m *MockDispatcher) Forget(roomName string) bool {
	return m.Called(roomName).Bool(0)
}

type fakeReceiver struct {
	event *models.RoomEvent
	err   error
}

func (f *fakeReceiver) Receive(r *http.Request) (*models.RoomEvent, error) {
	return f.event, f.err
}

// withURLParam attaches a chi route parameter to the request
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
