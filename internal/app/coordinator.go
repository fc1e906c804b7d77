package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/dkeye/Agora/internal/core"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrCoordinatorStopped = errors.New("coordinator stopped")
	ErrEmptyPayload       = errors.New("empty payload")
)

// Handler processes one inbound event for a session.
type Handler func(sid domain.SessionID, payload []byte) error

// Coordinator is the single owner of the attendee directory and the room registry.
// Events are handled one at a time, either through Run or by calling Dispatch from a
// single goroutine.
type Coordinator struct {
	users    *AttendeeDirectory
	rooms    *RoomRegistry
	notify   core.Notifier
	handlers map[core.EventName]Handler

	inbound chan core.Inbound
	done    chan struct{}
}

func NewCoordinator(notify core.Notifier, listener core.RoomsListener, queue int) *Coordinator {
	if queue <= 0 {
		queue = 1
	}
	c := &Coordinator{
		users:   NewAttendeeDirectory(),
		rooms:   NewRoomRegistry(listener),
		notify:  notify,
		inbound: make(chan core.Inbound, queue),
		done:    make(chan struct{}),
	}
	c.handlers = map[core.EventName]Handler{
		core.EventConnect:      c.handleConnect,
		core.EventJoinRoom:     c.handleJoinRoom,
		core.EventSpeakRequest: c.handleSpeakRequest,
		core.EventSpeakAnswer:  c.handleSpeakAnswer,
		core.EventDisconnect:   c.handleDisconnect,
	}
	return c
}

// Handlers returns the event table the transport registers.
func (c *Coordinator) Handlers() map[core.EventName]Handler {
	return maps.Clone(c.handlers)
}

// Rooms returns the lobby: snapshots of every active room.
func (c *Coordinator) Rooms() []domain.Room { return c.rooms.List() }

func (c *Coordinator) Room(id domain.RoomID) (domain.Room, bool) { return c.rooms.View(id) }

func (c *Coordinator) Attendee(id domain.SessionID) (domain.Attendee, bool) { return c.users.Get(id) }

// Submit queues ev for Run. It blocks while the queue is full.
func (c *Coordinator) Submit(ctx context.Context, ev core.Inbound) error {
	select {
	case <-c.done:
		return ErrCoordinatorStopped
	default:
	}
	select {
	case c.inbound <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrCoordinatorStopped
	}
}

// Run handles queued events until ctx is done. It must be called once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)
	log.Info().Str("module", "app.coordinator").Msg("event loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.coordinator").Msg("event loop stopped")
			return nil
		case ev := <-c.inbound:
			c.Dispatch(ev)
		}
	}
}

// Dispatch runs the handler bound to ev. A failing or panicking handler is logged and
// the event dropped; state of other sessions is not touched.
func (c *Coordinator) Dispatch(ev core.Inbound) {
	defer func() {
		if r := recover(); r != nil {
			metricDroppedEvents.WithLabelValues("panic").Inc()
			log.Error().Str("module", "app.coordinator").Str("sid", string(ev.SID)).Str("event", string(ev.Event)).Interface("panic", r).Msg("handler panicked")
		}
		metricActiveRooms.Set(float64(c.rooms.Len()))
		metricAttendees.Set(float64(c.users.Len()))
	}()

	h, ok := c.handlers[ev.Event]
	if !ok {
		metricDroppedEvents.WithLabelValues("unknown_event").Inc()
		log.Warn().Str("module", "app.coordinator").Str("sid", string(ev.SID)).Str("event", string(ev.Event)).Msg("unknown event")
		return
	}
	metricInboundEvents.WithLabelValues(string(ev.Event)).Inc()
	if err := h(ev.SID, ev.Payload); err != nil {
		metricDroppedEvents.WithLabelValues("bad_payload").Inc()
		log.Warn().Err(err).Str("module", "app.coordinator").Str("sid", string(ev.SID)).Str("event", string(ev.Event)).Msg("event dropped")
	}
}

func (c *Coordinator) handleConnect(sid domain.SessionID, payload []byte) error {
	var p domain.Profile
	if len(payload) > 0 {
		if err := decode(payload, &p); err != nil {
			return err
		}
	}
	c.OnConnect(sid, p)
	return nil
}

func (c *Coordinator) handleJoinRoom(sid domain.SessionID, payload []byte) error {
	var req core.JoinRequest
	if err := decode(payload, &req); err != nil {
		return err
	}
	if err := req.Room.ID.Validate(); err != nil {
		return err
	}
	c.JoinRoom(sid, req)
	return nil
}

func (c *Coordinator) handleSpeakRequest(sid domain.SessionID, _ []byte) error {
	c.SpeakRequest(sid)
	return nil
}

func (c *Coordinator) handleSpeakAnswer(sid domain.SessionID, payload []byte) error {
	var ans core.SpeakAnswer
	if err := decode(payload, &ans); err != nil {
		return err
	}
	c.SpeakAnswer(sid, ans)
	return nil
}

func (c *Coordinator) handleDisconnect(sid domain.SessionID, _ []byte) error {
	c.Disconnect(sid)
	return nil
}

func decode(payload []byte, v any) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
