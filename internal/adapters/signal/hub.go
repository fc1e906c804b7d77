package signal

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/Agora/internal/core"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

type envelope struct {
	Event core.EventName `json:"event"`
	Data  any            `json:"data,omitempty"`
}

// Hub is the notification broadcaster: it knows every open signal connection,
// which room group each session is in, and who watches the lobby.
// It implements core.Notifier and core.RoomsListener.
type Hub struct {
	mu     sync.RWMutex
	conns  map[domain.SessionID]core.SignalConnection
	groups map[domain.RoomID]map[domain.SessionID]struct{}
	lobby  map[string]core.SignalConnection
	policy Policy
}

func NewHub(policy Policy) *Hub {
	if policy == nil {
		policy = SimplePolicy{Action: DropFrame}
	}
	return &Hub{
		conns:  make(map[domain.SessionID]core.SignalConnection),
		groups: make(map[domain.RoomID]map[domain.SessionID]struct{}),
		lobby:  make(map[string]core.SignalConnection),
		policy: policy,
	}
}

func (h *Hub) Register(sid domain.SessionID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[sid] = conn
	log.Info().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("registered connection")
}

// Unregister forgets sid and removes it from every group.
func (h *Hub) Unregister(sid domain.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, sid)
	for room, members := range h.groups {
		delete(members, sid)
		if len(members) == 0 {
			delete(h.groups, room)
		}
	}
	log.Info().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("unregistered connection")
}

func (h *Hub) RegisterLobby(id string, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lobby[id] = conn
}

func (h *Hub) UnregisterLobby(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.lobby, id)
}

func (h *Hub) JoinGroup(sid domain.SessionID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[sid]; !ok {
		return
	}
	members, ok := h.groups[room]
	if !ok {
		members = make(map[domain.SessionID]struct{})
		h.groups[room] = members
	}
	members[sid] = struct{}{}
}

func (h *Hub) LeaveGroup(sid domain.SessionID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.groups[room]; ok {
		delete(members, sid)
		if len(members) == 0 {
			delete(h.groups, room)
		}
	}
}

func (h *Hub) EmitToOne(target domain.SessionID, event core.EventName, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	conn, ok := h.conns[target]
	h.mu.RUnlock()
	if !ok {
		log.Debug().Str("module", "adapters.signal").Str("sid", string(target)).Str("event", string(event)).Msg("emit to unknown session")
		return
	}
	h.deliver(target, conn, frame)
}

func (h *Hub) EmitToGroup(room domain.RoomID, event core.EventName, payload any, exclude domain.SessionID) {
	frame, err := encode(event, payload)
	if err != nil {
		return
	}
	type target struct {
		sid  domain.SessionID
		conn core.SignalConnection
	}
	h.mu.RLock()
	targets := make([]target, 0, len(h.groups[room]))
	for sid := range h.groups[room] {
		if sid == exclude {
			continue
		}
		if conn, ok := h.conns[sid]; ok {
			targets = append(targets, target{sid, conn})
		}
	}
	h.mu.RUnlock()

	for _, t := range targets {
		h.deliver(t.sid, t.conn, frame)
	}
	log.Debug().Str("module", "adapters.signal").Str("room", string(room)).Str("event", string(event)).Int("sent_to", len(targets)).Msg("group emit")
}

// OnCollectionChanged pushes the lobby to every lobby watcher.
func (h *Hub) OnCollectionChanged(rooms []domain.Room) {
	frame, err := encode(core.EventLobbyUpdated, rooms)
	if err != nil {
		return
	}
	h.mu.RLock()
	watchers := make([]core.SignalConnection, 0, len(h.lobby))
	for _, conn := range h.lobby {
		watchers = append(watchers, conn)
	}
	h.mu.RUnlock()

	for _, conn := range watchers {
		if err := conn.TrySend(frame); err != nil {
			log.Debug().Err(err).Str("module", "adapters.signal").Msg("lobby watcher dropped update")
		}
	}
}

func (h *Hub) deliver(sid domain.SessionID, conn core.SignalConnection, frame core.Frame) {
	err := conn.TrySend(frame)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrBackpressure) {
		log.Debug().Err(err).Str("module", "adapters.signal").Str("sid", string(sid)).Msg("send failed")
		return
	}
	switch h.policy.OnBackPressure(sid) {
	case KickMember:
		log.Warn().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("slow consumer kicked")
		conn.Close()
	case DropFrame:
		log.Warn().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("slow consumer, frame dropped")
	}
}

func encode(event core.EventName, payload any) (core.Frame, error) {
	b, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Str("event", string(event)).Msg("encode marshal")
		return nil, err
	}
	return b, nil
}
