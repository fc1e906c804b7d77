package core

import "github.com/dkeye/Agora/internal/domain"

// Frame is a raw encoded signal message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Notifier delivers coordinator events. Groups are rooms; a session joins the
// group of the room it is in. Payloads are always snapshot values.
type Notifier interface {
	JoinGroup(sid domain.SessionID, room domain.RoomID)
	LeaveGroup(sid domain.SessionID, room domain.RoomID)
	EmitToOne(target domain.SessionID, event EventName, payload any)
	// EmitToGroup delivers to every session in room except exclude.
	EmitToGroup(room domain.RoomID, event EventName, payload any, exclude domain.SessionID)
}

// RoomsListener observes the room collection.
type RoomsListener interface {
	OnCollectionChanged(rooms []domain.Room)
}
