package livekit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	lkproto "github.com/livekit/protocol/livekit"
	"github.com/longregen/roomgate/internal/adapters/circuitbreaker"
	"github.com/longregen/roomgate/internal/adapters/retry"
	"github.com/longregen/roomgate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

// fakeLiveKit answers the two twirp endpoints the service calls. Each
// handler returns either a protobuf message or a twirp error code.
type fakeLiveKit struct {
	createCalls   atomic.Int32
	dispatchCalls atomic.Int32

	createFailures atomic.Int32 // leading CreateRoom calls answered with unavailable
	createCode     string       // twirp error code for every CreateRoom call
	dispatchCode   string

	lastDispatch atomic.Pointer[lkproto.CreateAgentDispatchRequest]
}

func (f *fakeLiveKit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	switch r.URL.Path {
	case "/twirp/livekit.RoomService/CreateRoom":
		n := f.createCalls.Add(1)
		if n <= f.createFailures.Load() {
			writeTwirpError(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		if f.createCode != "" {
			writeTwirpError(w, f.createCode, http.StatusConflict)
			return
		}
		req := &lkproto.CreateRoomRequest{}
		_ = proto.Unmarshal(body, req)
		writeProto(w, &lkproto.Room{Name: req.GetName(), Sid: "RM_test"})

	case "/twirp/livekit.AgentDispatchService/CreateDispatch":
		f.dispatchCalls.Add(1)
		if f.dispatchCode != "" {
			writeTwirpError(w, f.dispatchCode, http.StatusServiceUnavailable)
			return
		}
		req := &lkproto.CreateAgentDispatchRequest{}
		_ = proto.Unmarshal(body, req)
		f.lastDispatch.Store(req)
		writeProto(w, &lkproto.AgentDispatch{Id: "AD_" + req.GetRoom(), Room: req.GetRoom(), AgentName: req.GetAgentName()})

	default:
		http.NotFound(w, r)
	}
}

func writeProto(w http.ResponseWriter, msg proto.Message) {
	data, _ := proto.Marshal(msg)
	w.Header().Set("Content-Type", "application/protobuf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeTwirpError(w http.ResponseWriter, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"code":"` + code + `","msg":"fake"}`))
}

func newTestService(t *testing.T, fake *fakeLiveKit) *Service {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	svc, err := NewService(&ServiceConfig{
		URL:             server.URL,
		APIKey:          testAPIKey,
		APISecret:       testAPISecret,
		AgentName:       "concierge",
		EmptyTimeout:    60,
		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
		Retry: retry.BackoffConfig{
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			MaxRetries:      2,
			Multiplier:      2.0,
		},
	})
	require.NoError(t, err)
	return svc
}

func TestService_CreateRoom(t *testing.T) {
	fake := &fakeLiveKit{}
	svc := newTestService(t, fake)

	require.NoError(t, svc.CreateRoom(context.Background(), "alpha"))
	assert.Equal(t, int32(1), fake.createCalls.Load())
}

func TestService_CreateRoom_AlreadyExists(t *testing.T) {
	fake := &fakeLiveKit{createCode: "already_exists"}
	svc := newTestService(t, fake)

	err := svc.CreateRoom(context.Background(), "alpha")
	assert.ErrorIs(t, err, domain.ErrRoomExists)
	assert.Equal(t, circuitbreaker.StateClosed, svc.BreakerState())
}

func TestService_CreateRoom_RetriesUnavailable(t *testing.T) {
	fake := &fakeLiveKit{}
	fake.createFailures.Store(2)
	svc := newTestService(t, fake)

	require.NoError(t, svc.CreateRoom(context.Background(), "alpha"))
	assert.Equal(t, int32(3), fake.createCalls.Load())
}

func TestService_CreateRoom_GivesUp(t *testing.T) {
	fake := &fakeLiveKit{}
	fake.createFailures.Store(10)
	svc := newTestService(t, fake)

	err := svc.CreateRoom(context.Background(), "alpha")
	require.Error(t, err)
	assert.Equal(t, int32(3), fake.createCalls.Load())
}

func TestService_DispatchAgent(t *testing.T) {
	fake := &fakeLiveKit{}
	svc := newTestService(t, fake)

	id, err := svc.DispatchAgent(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, "AD_alpha", id)

	req := fake.lastDispatch.Load()
	require.NotNil(t, req)
	assert.Equal(t, "alpha", req.GetRoom())
	assert.Equal(t, "concierge", req.GetAgentName())
}

func TestService_DispatchAgent_NotRetriedOnceDelivered(t *testing.T) {
	fake := &fakeLiveKit{dispatchCode: "unavailable"}
	svc := newTestService(t, fake)

	_, err := svc.DispatchAgent(context.Background(), "alpha")
	require.Error(t, err)
	assert.Equal(t, int32(1), fake.dispatchCalls.Load())
}

func TestService_RequiresRoomName(t *testing.T) {
	svc := newTestService(t, &fakeLiveKit{})

	assert.Error(t, svc.CreateRoom(context.Background(), ""))
	_, err := svc.DispatchAgent(context.Background(), "")
	assert.Error(t, err)
}
