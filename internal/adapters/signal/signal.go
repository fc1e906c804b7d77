package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Agora/internal/core"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrConnClosed = errors.New("connection closed")

// Coordinator is the part of the room coordinator the transport talks to.
type Coordinator interface {
	Submit(ctx context.Context, ev core.Inbound) error
	Rooms() []domain.Room
}

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

type SignalWSController struct {
	Hub     *Hub
	Coord   Coordinator
	Limiter *RoomRateLimiter
	opts    Options
}

func NewSignalWSController(hub *Hub, coord Coordinator, limiter *RoomRateLimiter, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	return &SignalWSController{
		Hub:     hub,
		Coord:   coord,
		Limiter: limiter,
		opts:    opts,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleRoom serves the room namespace. Every connection is a new session identity.
func (ctl *SignalWSController) HandleRoom(ctx context.Context, c *gin.Context, profile domain.Profile) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("ws upgrade")
		return
	}

	sid := domain.SessionID(uuid.NewString())
	conn := newWsSignalConn(ws, ctl.opts.SendBuffer)
	ctl.Hub.Register(sid, conn)
	log.Info().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("new room connection")

	payload, err := json.Marshal(profile)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("profile marshal")
	}
	if err := ctl.Coord.Submit(ctx, core.Inbound{SID: sid, Event: core.EventConnect, Payload: payload}); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Str("sid", string(sid)).Msg("submit connect")
		ctl.Hub.Unregister(sid)
		conn.Close()
		return
	}
	ctl.Hub.EmitToOne(sid, core.EventConnect, map[string]domain.SessionID{"id": sid})

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, conn)
	go func() {
		defer cancel()
		ctl.readPump(connCtx, sid, conn)
		ctl.Hub.Unregister(sid)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(sid)
		}
		// The server context may already be done; the disconnect must still be queued.
		if err := ctl.Coord.Submit(context.WithoutCancel(ctx), core.Inbound{SID: sid, Event: core.EventDisconnect}); err != nil {
			log.Warn().Err(err).Str("module", "adapters.signal").Str("sid", string(sid)).Msg("submit disconnect")
		}
	}()
}

// HandleLobby serves the lobby namespace: the current rooms right away, then every change.
func (ctl *SignalWSController) HandleLobby(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("ws upgrade")
		return
	}

	id := uuid.NewString()
	conn := newWsSignalConn(ws, ctl.opts.SendBuffer)
	// Registered before the snapshot is read so no change can fall in between.
	ctl.Hub.RegisterLobby(id, conn)
	if frame, err := encode(core.EventLobbyUpdated, ctl.Coord.Rooms()); err == nil {
		_ = conn.TrySend(frame)
	}
	log.Info().Str("module", "adapters.signal").Str("lobby_id", id).Msg("new lobby connection")

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, conn)
	go func() {
		defer cancel()
		ctl.drainPump(connCtx, conn)
		ctl.Hub.UnregisterLobby(id)
	}()
}
