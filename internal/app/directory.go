package app

import (
	"sync"

	"github.com/dkeye/Agora/internal/domain"
	"github.com/rs/zerolog/log"
)

// AttendeeDirectory maps session identity to the participant record.
type AttendeeDirectory struct {
	mu    sync.RWMutex
	users map[domain.SessionID]domain.Attendee
}

func NewAttendeeDirectory() *AttendeeDirectory {
	return &AttendeeDirectory{users: make(map[domain.SessionID]domain.Attendee)}
}

func (d *AttendeeDirectory) Get(id domain.SessionID) (domain.Attendee, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.users[id]
	return a, ok
}

// Upsert merges p over the stored record and binds it to roomID.
// The first joiner of a room that does not exist yet becomes a speaker; any other
// join starts as a listener, except a repeated join of the room the record is already in,
// which keeps its permission. An empty roomID is a placeholder and never a speaker.
func (d *AttendeeDirectory) Upsert(id domain.SessionID, p domain.Profile, roomID domain.RoomID, roomExists bool) domain.Attendee {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, found := d.users[id]
	a := prev.Merge(p)
	a.ID = id
	a.RoomID = roomID
	switch {
	case roomID == "":
		a.IsSpeaker = false
	case !roomExists:
		a.IsSpeaker = true
	case found && prev.RoomID == roomID:
		// Deliberately not reset to listener: a repeated join must not demote an owner.
		a.IsSpeaker = prev.IsSpeaker
	default:
		a.IsSpeaker = false
	}
	d.users[id] = a
	log.Debug().Str("module", "app.directory").Str("sid", string(id)).Str("room", string(roomID)).Bool("speaker", a.IsSpeaker).Msg("upserted attendee")
	return a
}

// Replace overwrites an existing record. Unknown ids are ignored.
func (d *AttendeeDirectory) Replace(a domain.Attendee) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[a.ID]; !ok {
		return false
	}
	d.users[a.ID] = a
	return true
}

func (d *AttendeeDirectory) Remove(id domain.SessionID) (domain.Attendee, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.users[id]
	if ok {
		delete(d.users, id)
		log.Debug().Str("module", "app.directory").Str("sid", string(id)).Msg("removed attendee")
	}
	return a, ok
}

func (d *AttendeeDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
