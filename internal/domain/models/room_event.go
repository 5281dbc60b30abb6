package models

const (
	RoomEventStarted  = "room_started"
	RoomEventFinished = "room_finished"
)

// RoomEvent is the part of a media server webhook the service acts on
type RoomEvent struct {
	ID       string
	Event    string
	RoomName string
}

func (e RoomEvent) IsRoomFinished() bool {
	return e.Event == RoomEventFinished && e.RoomName != ""
}
