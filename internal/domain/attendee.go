// Package domain holds the attendee and room value types with their field
// validation and merge rules. No transport or lifecycle logic here.
package domain

import "errors"

const (
	MaxUsernameLen = 36
	MaxRoomIDLen   = 64
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
	ErrRoomIDEmpty     = errors.New("room id empty")
	ErrRoomIDTooLong   = errors.New("room id too long")
)

// SessionID is the stable identity of one connected session.
type SessionID string

// Attendee is a participant's identity and permission state within one room.
// Values of this type are snapshots; nothing outside the coordinator holds a live reference.
type Attendee struct {
	ID        SessionID `json:"id"`
	Username  string    `json:"username"`
	ImageURL  string    `json:"img"`
	RoomID    RoomID    `json:"roomId"`
	PeerID    string    `json:"peerId,omitempty"`
	IsSpeaker bool      `json:"isSpeaker"`
}

// Profile carries the client-supplied attendee fields. Empty fields are "unspecified"
// and leave the stored value untouched on merge.
type Profile struct {
	ID       SessionID `json:"id,omitempty"`
	Username string    `json:"username,omitempty"`
	ImageURL string    `json:"img,omitempty"`
	PeerID   string    `json:"peerId,omitempty"`
}

// Merge returns a copy of a with every specified field of p applied.
func (a Attendee) Merge(p Profile) Attendee {
	if p.Username != "" {
		a.Username = p.Username
	}
	if p.ImageURL != "" {
		a.ImageURL = p.ImageURL
	}
	if p.PeerID != "" {
		a.PeerID = p.PeerID
	}
	return a
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}
