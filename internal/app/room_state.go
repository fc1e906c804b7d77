package app

import "github.com/dkeye/Agora/internal/domain"

// RoomState is the raw, mutable room owned by the coordinator.
// Members are keyed by identity and remember join order.
type RoomState struct {
	ID      domain.RoomID
	Topic   string
	OwnerID domain.SessionID
	Members *ordered[domain.SessionID, domain.Attendee]
}

func NewRoomState(id domain.RoomID, topic string, owner domain.SessionID) *RoomState {
	return &RoomState{
		ID:      id,
		Topic:   topic,
		OwnerID: owner,
		Members: newOrdered[domain.SessionID, domain.Attendee](),
	}
}

// MapRoom derives the broadcast-safe view of st.
func MapRoom(st *RoomState) domain.Room {
	members := st.Members.Values()
	speakers := 0
	for _, m := range members {
		if m.IsSpeaker {
			speakers++
		}
	}
	featured := members[:min(domain.FeaturedLimit, len(members))]
	owner, _ := st.Members.Get(st.OwnerID)
	return domain.Room{
		ID:                st.ID,
		Topic:             st.Topic,
		Owner:             owner,
		FeaturedAttendees: append([]domain.Attendee(nil), featured...),
		SpeakersCount:     speakers,
		AttendeesCount:    len(members),
		Members:           members,
	}
}
