package handlers

import (
	"net/http"

	"github.com/longregen/roomgate/internal/adapters/circuitbreaker"
)

// ProviderHealth exposes the state of the media server circuit breaker
type ProviderHealth interface {
	BreakerState() circuitbreaker.State
}

// DispatchCounter reports how many dispatch records are held
type DispatchCounter interface {
	Len() int
}

type HealthHandler struct {
	version  string
	provider ProviderHealth
	records  DispatchCounter
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func NewHealthHandlerWithDeps(version string, provider ProviderHealth, records DispatchCounter) *HealthHandler {
	return &HealthHandler{
		version:  version,
		provider: provider,
		records:  records,
	}
}

type HealthResponse struct {
	Status  string `json:"status" msgpack:"status"`
	Version string `json:"version,omitempty" msgpack:"version,omitempty"`
}

type DetailedHealthResponse struct {
	Status          string                   `json:"status" msgpack:"status"`
	Version         string                   `json:"version" msgpack:"version"`
	DispatchRecords int                      `json:"dispatchRecords" msgpack:"dispatchRecords"`
	Services        map[string]ServiceHealth `json:"services" msgpack:"services"`
}

type ServiceHealth struct {
	Status  string `json:"status" msgpack:"status"`
	Breaker string `json:"breaker,omitempty" msgpack:"breaker,omitempty"`
}

// Handle provides a basic health check endpoint
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respond(w, r, HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}

// HandleDetailed reports the LiveKit breaker. An open breaker only degrades
// the service since credentials are still issued.
func (h *HealthHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	response := DetailedHealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Services: make(map[string]ServiceHealth),
	}

	if h.records != nil {
		response.DispatchRecords = h.records.Len()
	}

	if h.provider != nil {
		state := h.provider.BreakerState()
		svc := ServiceHealth{Status: "healthy", Breaker: state.String()}
		switch state {
		case circuitbreaker.StateOpen:
			svc.Status = "unhealthy"
			response.Status = "degraded"
		case circuitbreaker.StateHalfOpen:
			svc.Status = "degraded"
			response.Status = "degraded"
		}
		response.Services["livekit"] = svc
	}

	respond(w, r, response, http.StatusOK)
}
