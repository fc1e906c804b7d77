package app

import (
	"sync"

	"github.com/dkeye/Agora/internal/core"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomRegistry maps room identity to room state. Every Set and Delete refreshes the
// derived view and then hands the whole collection to the listener, synchronously and
// exactly once per call.
type RoomRegistry struct {
	mu       sync.RWMutex
	rooms    *ordered[domain.RoomID, *RoomState]
	views    map[domain.RoomID]domain.Room
	listener core.RoomsListener
}

func NewRoomRegistry(listener core.RoomsListener) *RoomRegistry {
	return &RoomRegistry{
		rooms:    newOrdered[domain.RoomID, *RoomState](),
		views:    make(map[domain.RoomID]domain.Room),
		listener: listener,
	}
}

func (r *RoomRegistry) Has(id domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms.Has(id)
}

// Get returns the live state; only the coordinator may mutate it, and must Set it afterwards.
func (r *RoomRegistry) Get(id domain.RoomID) (*RoomState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms.Get(id)
}

// View returns the last derived snapshot of a room.
func (r *RoomRegistry) View(id domain.RoomID) (domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	return v, ok
}

func (r *RoomRegistry) Set(id domain.RoomID, st *RoomState) {
	view := MapRoom(st)
	r.mu.Lock()
	r.rooms.Put(id, st)
	r.views[id] = view
	rooms := r.listLocked()
	r.mu.Unlock()

	log.Debug().Str("module", "app.registry").Str("room", string(id)).Int("attendees", view.AttendeesCount).Int("speakers", view.SpeakersCount).Msg("room stored")
	r.notify(rooms)
}

func (r *RoomRegistry) Delete(id domain.RoomID) {
	r.mu.Lock()
	r.rooms.Delete(id)
	delete(r.views, id)
	rooms := r.listLocked()
	r.mu.Unlock()

	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room deleted")
	r.notify(rooms)
}

// List returns the snapshots of all rooms in creation order.
func (r *RoomRegistry) List() []domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *RoomRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms.Len()
}

func (r *RoomRegistry) listLocked() []domain.Room {
	out := make([]domain.Room, 0, r.rooms.Len())
	for _, st := range r.rooms.Values() {
		out = append(out, r.views[st.ID])
	}
	return out
}

func (r *RoomRegistry) notify(rooms []domain.Room) {
	if r.listener == nil {
		return
	}
	r.listener.OnCollectionChanged(rooms)
}
