package core

import "github.com/dkeye/Agora/internal/domain"

// EventName is the wire name of a signal event.
type EventName string

const (
	EventUserConnected     EventName = "userConnection"
	EventUserDisconnected  EventName = "userDisconnection"
	EventJoinRoom          EventName = "joinRoom"
	EventLobbyUpdated      EventName = "lobbyUpdated"
	EventUpgradePermission EventName = "upgradeUserPermission"
	EventSpeakRequest      EventName = "speakRequest"
	EventSpeakAnswer       EventName = "speakAnswer"

	// Lifecycle events raised by the transport itself, never by clients.
	EventConnect    EventName = "connect"
	EventDisconnect EventName = "disconnect"
)

// Inbound is one event received from a session, waiting for the coordinator.
type Inbound struct {
	SID     domain.SessionID
	Event   EventName
	Payload []byte
}

// JoinRequest is the joinRoom payload.
type JoinRequest struct {
	User domain.Profile `json:"user"`
	Room domain.RoomRef `json:"room"`
}

// SpeakAnswer is the speakAnswer payload.
type SpeakAnswer struct {
	Answer bool            `json:"answer"`
	User   domain.Attendee `json:"user"`
}
