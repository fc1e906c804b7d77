package app

import (
	"github.com/dkeye/Agora/internal/core"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/rs/zerolog/log"
)

// SpeakRequest forwards the request to the owner of the requester's room only.
func (c *Coordinator) SpeakRequest(sid domain.SessionID) {
	att, ok := c.users.Get(sid)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("speak request from unknown session")
		return
	}
	st, ok := c.rooms.Get(att.RoomID)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(att.RoomID)).Msg("speak request for unknown room")
		return
	}
	c.notify.EmitToOne(st.OwnerID, core.EventSpeakRequest, att)
	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("owner", string(st.OwnerID)).Msg("speak request")
}

// SpeakAnswer sets the speaker flag of ans.User. Answers from unknown sessions, or about
// attendees or rooms that are gone by now, are ignored.
func (c *Coordinator) SpeakAnswer(sid domain.SessionID, ans core.SpeakAnswer) {
	if _, ok := c.users.Get(sid); !ok {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("speak answer from unknown session")
		return
	}
	stale, ok := c.users.Get(ans.User.ID)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Str("user", string(ans.User.ID)).Msg("speak answer for unknown user")
		return
	}
	st, ok := c.rooms.Get(stale.RoomID)
	if !ok || !st.Members.Has(stale.ID) {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(sid)).Str("room", string(stale.RoomID)).Msg("speak answer for unknown room")
		return
	}

	updated := stale
	updated.IsSpeaker = ans.Answer
	c.users.Replace(updated)
	st.Members.Put(updated.ID, updated)
	c.rooms.Set(st.ID, st)

	c.notify.EmitToOne(sid, core.EventUpgradePermission, updated)
	c.notify.EmitToGroup(st.ID, core.EventUpgradePermission, updated, sid)

	log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Str("user", string(updated.ID)).Bool("speaker", updated.IsSpeaker).Msg("speak answer")
}
