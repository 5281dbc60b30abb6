package models

import (
	"time"
)

// DefaultCredentialTTL is how long an issued room credential stays valid.
const DefaultCredentialTTL = time.Hour

// Capabilities are the room permissions embedded in a credential
type Capabilities struct {
	Join        bool `json:"join"`
	Publish     bool `json:"publish"`
	Subscribe   bool `json:"subscribe"`
	PublishData bool `json:"publish_data"`
}

// ParticipantCapabilities is the fixed policy granted to every joining participant.
func ParticipantCapabilities() Capabilities {
	return Capabilities{
		Join:        true,
		Publish:     true,
		Subscribe:   true,
		PublishData: true,
	}
}

// Grant describes what a credential authorizes. It is built per request
// and handed straight to the token minter.
type Grant struct {
	Identity     string        `json:"identity"`
	Name         string        `json:"name"`
	Room         string        `json:"room"`
	Capabilities Capabilities  `json:"capabilities"`
	TTL          time.Duration `json:"ttl"`
}

func NewGrant(room, identity string, ttl time.Duration) Grant {
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	return Grant{
		Identity:     identity,
		Name:         identity,
		Room:         room,
		Capabilities: ParticipantCapabilities(),
		TTL:          ttl,
	}
}

// Credential is a signed room access token plus the room and identity it was issued for
type Credential struct {
	Token     string    `json:"token" msgpack:"token"`
	RoomName  string    `json:"roomName" msgpack:"roomName"`
	Identity  string    `json:"participantName" msgpack:"participantName"`
	ExpiresAt time.Time `json:"expiresAt" msgpack:"expiresAt"`
}
