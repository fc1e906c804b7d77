package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Agora/internal/core"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

type inboundEnvelope struct {
	Event core.EventName  `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "adapters.signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "adapters.signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "adapters.signal").Msg("writePump ping failed")
				return
			}
		}
	}
}

// prepareRead applies the read limit and the pong-driven read deadline.
func (ctl *SignalWSController) prepareRead(c *WsSignalConn) {
	pongWait := ctl.opts.PingPeriod * 10 / 9
	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (ctl *SignalWSController) readPump(ctx context.Context, sid domain.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("readPump closing")
		c.Close()
	}()
	ctl.prepareRead(c)

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "adapters.signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			if err := ctl.handleSignal(ctx, sid, data); err != nil {
				return
			}
		}
	}
}

// drainPump keeps a lobby connection alive; lobby clients only listen.
func (ctl *SignalWSController) drainPump(ctx context.Context, c *WsSignalConn) {
	defer c.Close()
	ctl.prepareRead(c)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// handleSignal decodes one client frame and queues it. Only a stopped coordinator
// is reported back; bad frames are dropped.
func (ctl *SignalWSController) handleSignal(ctx context.Context, sid domain.SessionID, data []byte) error {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Str("sid", string(sid)).Msg("bad json")
		return nil
	}

	switch env.Event {
	case core.EventJoinRoom, core.EventSpeakAnswer:
	case core.EventSpeakRequest:
		if ctl.Limiter != nil && !ctl.Limiter.Allow(sid) {
			log.Warn().Str("module", "adapters.signal").Str("sid", string(sid)).Msg("speak request throttled")
			return nil
		}
	default:
		log.Warn().Str("module", "adapters.signal").Str("sid", string(sid)).Str("event", string(env.Event)).Msg("unknown signal")
		return nil
	}

	if err := ctl.Coord.Submit(ctx, core.Inbound{SID: sid, Event: env.Event, Payload: env.Data}); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Str("sid", string(sid)).Msg("submit")
		return err
	}
	return nil
}
