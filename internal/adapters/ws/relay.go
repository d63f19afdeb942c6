package ws

import (
	"encoding/json"
	"errors"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"studyhall/internal/app"
	"studyhall/internal/core"
	"studyhall/internal/events"
)

// handleSignal validates a signaling envelope and relays it point-to-point.
// The payload shape is checked against pion's types before the relay so
// garbage never reaches the target; the bytes themselves are forwarded
// untouched.
func (ctl *Controller) handleSignal(cid core.ConnID, c *wsConn, eventType string, data []byte) {
	var p events.Signal
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("bad signal payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.TargetConnectionID == "" {
		ctl.sendError(c, "missing targetConnectionId")
		return
	}
	if err := validateSignalPayload(eventType, p.Payload); err != nil {
		log.Warn().Err(err).Str("module", "adapters.ws").Str("cid", string(cid)).Str("type", eventType).Msg("malformed signal")
		ctl.sendError(c, "malformed signal payload")
		return
	}

	err := ctl.Coord.Relay(cid, eventType, core.ConnID(p.TargetConnectionID), p.Payload)
	if errors.Is(err, app.ErrTargetUnavailable) {
		// Reported to the sender only, never broadcast.
		ctl.sendError(c, "target unavailable")
	}
}

func validateSignalPayload(eventType string, payload json.RawMessage) error {
	switch eventType {
	case events.TypeSignalOffer, events.TypeSignalAnswer:
		var sd webrtc.SessionDescription
		if err := json.Unmarshal(payload, &sd); err != nil {
			return err
		}
		if sd.SDP == "" {
			return errors.New("empty sdp")
		}
	case events.TypeSignalICE:
		var ci webrtc.ICECandidateInit
		if err := json.Unmarshal(payload, &ci); err != nil {
			return err
		}
		if ci.Candidate == "" {
			return errors.New("empty candidate")
		}
	}
	return nil
}
