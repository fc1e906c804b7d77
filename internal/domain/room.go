package domain

type RoomID string

func (id RoomID) Validate() error {
	if id == "" {
		return ErrRoomIDEmpty
	}
	if len(id) > MaxRoomIDLen {
		return ErrRoomIDTooLong
	}
	return nil
}

// FeaturedLimit is how many members a room preview shows.
const FeaturedLimit = 3

// Room is the broadcast-safe view of a room handed to the lobby and to transport.
type Room struct {
	ID                RoomID     `json:"id"`
	Topic             string     `json:"topic"`
	Owner             Attendee   `json:"owner"`
	FeaturedAttendees []Attendee `json:"featuredAttendees"`
	SpeakersCount     int        `json:"speakersCount"`
	AttendeesCount    int        `json:"attendeesCount"`
	// Members is the full ordered member list; kept out of lobby payloads.
	Members []Attendee `json:"-"`
}

// RoomRef is the room part of a joinRoom request.
type RoomRef struct {
	ID    RoomID `json:"id"`
	Topic string `json:"topic,omitempty"`
}
