package ws

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"studyhall/internal/app"
	"studyhall/internal/core"
	"studyhall/internal/domain"
	"studyhall/internal/events"
)

func (ctl *Controller) handleChat(cid core.ConnID, c *wsConn, user *domain.User, data []byte) {
	var p events.ChatMessage
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad chat payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.Text == "" {
		return
	}
	if !ctl.chatLimiter.Allow(user.ID) {
		ctl.sendError(c, "rate limited")
		return
	}

	if _, err := ctl.Coord.Chat(cid, p.Text); err != nil {
		// Not being in a room drops the event silently; anything else is
		// a stale-connection race worth a log line only.
		if !errors.Is(err, app.ErrNotInRoom) {
			log.Warn().Err(err).Str("module", "adapters.ws").Str("cid", string(cid)).Msg("chat dropped")
		}
	}
}

// handleBroadcast covers the payload-carrying room events: document, cursor,
// whiteboard and screen-share updates. The event name is preserved on the way
// out.
func (ctl *Controller) handleBroadcast(cid core.ConnID, c *wsConn, eventType string, data []byte) {
	var p events.Broadcastable
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad broadcast payload")
		ctl.sendError(c, "bad_payload")
		return
	}

	if _, err := ctl.Coord.Broadcast(cid, eventType, p.Payload); err != nil {
		if !errors.Is(err, app.ErrNotInRoom) {
			log.Warn().Err(err).Str("module", "adapters.ws").Str("cid", string(cid)).Str("type", eventType).Msg("broadcast dropped")
		}
	}
}
