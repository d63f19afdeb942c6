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

func (ctl *Controller) handleJoin(cid core.ConnID, c *wsConn, data []byte) {
	var p events.JoinRoom
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad join payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.RoomID == "" {
		ctl.sendError(c, "missing roomId")
		return
	}

	log.Info().Str("module", "adapters.ws").Str("cid", string(cid)).Str("room", p.RoomID).Msg("join")
	err := ctl.Coord.OnJoinRequest(cid, domain.RoomID(p.RoomID))
	switch {
	case err == nil:
	case errors.Is(err, app.ErrRoomNotFound):
		ctl.sendError(c, "room does not exist")
	case errors.Is(err, app.ErrRoomFull):
		ctl.sendError(c, "room is full")
	default:
		log.Error().Err(err).Str("module", "adapters.ws").Str("cid", string(cid)).Msg("join failed")
		ctl.sendError(c, "failed to join room")
	}
}

func (ctl *Controller) handleLeave(cid core.ConnID) {
	log.Info().Str("module", "adapters.ws").Str("cid", string(cid)).Msg("leave")
	ctl.Coord.OnLeaveRequest(cid)
}
