package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/longregen/roomgate/internal/adapters/http/dto"
	"github.com/longregen/roomgate/internal/domain"
	"github.com/longregen/roomgate/internal/ports"
)

// DispatchHandler exposes dispatch records to operators
type DispatchHandler struct {
	dispatcher ports.DispatchDeduplicator
	retention  time.Duration
}

func NewDispatchHandler(dispatcher ports.DispatchDeduplicator, retention time.Duration) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: dispatcher,
		retention:  retention,
	}
}

func (h *DispatchHandler) List(w http.ResponseWriter, r *http.Request) {
	respond(w, r, dto.NewDispatchListResponse(h.dispatcher.Snapshot(), h.retention), http.StatusOK)
}

func (h *DispatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}

	rec, found := h.dispatcher.Status(room)
	if !found {
		respondDomainError(w, r, domain.NewDomainError(domain.ErrDispatchNotFound, "no dispatch record for room "+room))
		return
	}

	respond(w, r, dto.NewDispatchResponse(rec, h.retention), http.StatusOK)
}

// Delete forgets a room's record so the next join dispatches again.
func (h *DispatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	room, ok := roomParam(w, r)
	if !ok {
		return
	}

	if !h.dispatcher.Forget(room) {
		respondDomainError(w, r, domain.NewDomainError(domain.ErrDispatchNotFound, "no dispatch record for room "+room))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func roomParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	room := strings.TrimSpace(chi.URLParam(r, "room"))
	if room == "" {
		respondError(w, r, "invalid_request", "room is required", http.StatusBadRequest)
		return "", false
	}
	return room, true
}
