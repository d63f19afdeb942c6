package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"studyhall/internal/core"
	"studyhall/internal/domain"
	"studyhall/internal/events"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, cid core.ConnID, c *wsConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "adapters.ws").Str("cid", string(cid)).Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "adapters.ws").Str("cid", string(cid)).Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "adapters.ws").Str("cid", string(cid)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump serves one connection until the transport dies or the context is
// canceled. Its deferred disconnect path is the cleanup guarantee for abrupt
// closes: membership is fully released even when no leave-room ever arrived.
func (ctl *Controller) readPump(ctx context.Context, cid core.ConnID, c *wsConn, user *domain.User) {
	defer func() {
		log.Info().Str("module", "adapters.ws").Str("cid", string(cid)).Msg("readPump closing")
		ctl.Coord.OnDisconnect(cid)
		c.Close()
	}()

	if ctl.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.ReadLimit)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "adapters.ws").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "adapters.ws").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.dispatch(cid, c, user, data)
		}
	}
}

// dispatch routes one inbound envelope by its type field. Handlers run on the
// connection's read goroutine, which is what gives broadcast delivery its
// per-sender FIFO ordering.
func (ctl *Controller) dispatch(cid core.ConnID, c *wsConn, user *domain.User, data []byte) {
	var env events.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch {
	case env.Type == events.TypeJoinRoom:
		ctl.handleJoin(cid, c, data)
	case env.Type == events.TypeLeaveRoom:
		ctl.handleLeave(cid)
	case env.Type == events.TypeChatMessage:
		ctl.handleChat(cid, c, user, data)
	case events.IsSignal(env.Type):
		ctl.handleSignal(cid, c, env.Type, data)
	case events.IsBroadcast(env.Type):
		ctl.handleBroadcast(cid, c, env.Type, data)
	case env.Type == events.TypePing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "adapters.ws").Str("type", env.Type).Msg("unknown event")
		ctl.sendError(c, "unknown_event")
	}
}
