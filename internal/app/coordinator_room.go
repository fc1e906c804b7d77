package app

import (
	"github.com/dkeye/Agora/internal/core"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/rs/zerolog/log"
)

// OnConnect registers a placeholder record for a new session. A repeated connect for
// a known session is ignored.
func (c *Coordinator) OnConnect(sid domain.SessionID, p domain.Profile) {
	if _, ok := c.users.Get(sid); ok {
		log.Warn().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("duplicate connection")
		return
	}
	c.users.Upsert(sid, p, "", false)
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("connection")
}

func (c *Coordinator) JoinRoom(sid domain.SessionID, req core.JoinRequest) {
	roomID := req.Room.ID

	if prev, ok := c.users.Get(sid); ok && prev.RoomID != "" && prev.RoomID != roomID {
		c.leaveRoom(prev)
		c.notify.LeaveGroup(sid, prev.RoomID)
		log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("from_room", string(prev.RoomID)).Msg("left previous room")
	}

	existed := c.rooms.Has(roomID)
	att := c.users.Upsert(sid, req.User, roomID, existed)

	st, ok := c.rooms.Get(roomID)
	if !ok {
		st = NewRoomState(roomID, req.Room.Topic, sid)
	}
	st.Members.Put(sid, att)
	c.rooms.Set(roomID, st)

	c.notify.JoinGroup(sid, roomID)
	c.notify.EmitToOne(sid, core.EventLobbyUpdated, st.Members.Values())
	c.notify.EmitToGroup(roomID, core.EventUserConnected, att, sid)

	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(roomID)).Bool("created", !existed).Bool("speaker", att.IsSpeaker).Msg("joined room")
}

// Disconnect is terminal for sid: the record is dropped and any later event
// carrying the same identity refers to an unknown user.
func (c *Coordinator) Disconnect(sid domain.SessionID) {
	att, ok := c.users.Remove(sid)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("disconnect of unknown session")
		return
	}
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(att.RoomID)).Msg("disconnect")
	c.leaveRoom(att)
}

func (c *Coordinator) leaveRoom(att domain.Attendee) {
	st, ok := c.rooms.Get(att.RoomID)
	if !ok {
		return
	}
	st.Members.Delete(att.ID)

	if st.Members.Len() == 0 {
		c.rooms.Delete(st.ID)
		return
	}

	if att.ID == st.OwnerID || st.Members.Len() == 1 {
		c.electOwner(st, att.ID)
	}

	c.rooms.Set(st.ID, st)
	c.notify.EmitToGroup(st.ID, core.EventUserDisconnected, att, att.ID)
}

// electOwner hands the room to the first remaining speaker, or to the oldest member
// when nobody speaks. The new owner is always (re)promoted to speaker.
func (c *Coordinator) electOwner(st *RoomState, departed domain.SessionID) {
	members := st.Members.Values()
	next := members[0]
	for _, m := range members {
		if m.IsSpeaker {
			next = m
			break
		}
	}
	next.IsSpeaker = true
	st.Members.Put(next.ID, next)
	st.OwnerID = next.ID
	c.users.Replace(next)
	metricOwnerElections.Inc()

	c.rooms.Set(st.ID, st)
	c.notify.EmitToGroup(st.ID, core.EventUpgradePermission, next, departed)

	log.Info().Str("module", "app.coordinator").Str("room", string(st.ID)).Str("owner", string(next.ID)).Msg("owner elected")
}
