package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/longregen/roomgate/internal/adapters/circuitbreaker"
)

type staticBreaker struct{ state circuitbreaker.State }

func (s staticBreaker) BreakerState() circuitbreaker.State { return s.state }

type staticCounter int

func (c staticCounter) Len() int { return int(c) }

func TestHealthHandler_Handle_Success(t *testing.T) {
	handler := NewHealthHandler("1.2.3")

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", response.Status)
	}

	if response.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", response.Version)
	}
}

func TestHealthHandler_Handle_ContentType(t *testing.T) {
	handler := NewHealthHandler("dev")

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	handler.Handle(rr, req)

	contentType := rr.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", contentType)
	}
}

func TestHealthHandler_HandleDetailed(t *testing.T) {
	tests := []struct {
		name          string
		state         circuitbreaker.State
		wantStatus    string
		wantLiveKit   string
		wantBreakerID string
	}{
		{"closed breaker", circuitbreaker.StateClosed, "healthy", "healthy", "closed"},
		{"half open breaker", circuitbreaker.StateHalfOpen, "degraded", "degraded", "half_open"},
		{"open breaker", circuitbreaker.StateOpen, "degraded", "unhealthy", "open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandlerWithDeps("dev", staticBreaker{state: tt.state}, staticCounter(3))

			rr := httptest.NewRecorder()
			handler.HandleDetailed(rr, httptest.NewRequest("GET", "/health/detailed", nil))

			if rr.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", rr.Code)
			}

			var response DetailedHealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, response.Status)
			}
			if response.DispatchRecords != 3 {
				t.Errorf("expected 3 dispatch records, got %d", response.DispatchRecords)
			}
			lk := response.Services["livekit"]
			if lk.Status != tt.wantLiveKit || lk.Breaker != tt.wantBreakerID {
				t.Errorf("unexpected livekit health %+v", lk)
			}
		})
	}
}

func TestHealthHandler_HandleDetailed_NoDependencies(t *testing.T) {
	handler := NewHealthHandler("dev")

	rr := httptest.NewRecorder()
	handler.HandleDetailed(rr, httptest.NewRequest("GET", "/health/detailed", nil))

	var response DetailedHealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("expected healthy, got %s", response.Status)
	}
	if len(response.Services) != 0 {
		t.Errorf("expected no services, got %v", response.Services)
	}
}
