package handlers

import (
	"log/slog"
	"net/http"

	"github.com/longregen/roomgate/internal/adapters/metrics"
	"github.com/longregen/roomgate/internal/adapters/tracing"
	"github.com/longregen/roomgate/internal/ports"
	"go.opentelemetry.io/otel/trace"
)

type WebhookHandler struct {
	receiver   ports.WebhookReceiver
	dispatcher ports.DispatchDeduplicator
}

func NewWebhookHandler(receiver ports.WebhookReceiver, dispatcher ports.DispatchDeduplicator) *WebhookHandler {
	return &WebhookHandler{
		receiver:   receiver,
		dispatcher: dispatcher,
	}
}

// Handle accepts LiveKit webhooks. A finished room frees its dispatch slot
// so the next join to a room of the same name gets a fresh agent.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	event, err := h.receiver.Receive(r)
	if err != nil {
		slog.WarnContext(r.Context(), "webhook rejected", "error", err)
		respondError(w, r, "unauthorized", "Invalid webhook signature", http.StatusUnauthorized)
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.Event).Inc()
	trace.SpanFromContext(r.Context()).SetAttributes(tracing.WebhookEvent(event.Event), tracing.RoomName(event.RoomName))
	slog.DebugContext(r.Context(), "webhook received", "event", event.Event, "room", event.RoomName, "id", event.ID)

	if event.IsRoomFinished() {
		if h.dispatcher.Forget(event.RoomName) {
			slog.InfoContext(r.Context(), "room finished, dispatch slot freed", "room", event.RoomName)
		}
	}

	w.WriteHeader(http.StatusOK)
}
