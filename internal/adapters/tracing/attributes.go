package tracing

import "go.opentelemetry.io/otel/attribute"

// Standard attribute keys for roomgate spans.
const (
	AttrRoomName      = "room.name"
	AttrParticipant   = "participant.identity"
	AttrRequestID     = "request.id"
	AttrDispatchID    = "dispatch.id"
	AttrDispatchToken = "dispatch.token"
	AttrWebhookEvent  = "livekit.webhook.event"
)

func RoomName(name string) attribute.KeyValue       { return attribute.String(AttrRoomName, name) }
func Participant(id string) attribute.KeyValue      { return attribute.String(AttrParticipant, id) }
func RequestID(id string) attribute.KeyValue        { return attribute.String(AttrRequestID, id) }
func DispatchID(id string) attribute.KeyValue       { return attribute.String(AttrDispatchID, id) }
func DispatchToken(token uint64) attribute.KeyValue { return attribute.Int64(AttrDispatchToken, int64(token)) }
func WebhookEvent(event string) attribute.KeyValue  { return attribute.String(AttrWebhookEvent, event) }
