package ws

import "studyhall/internal/events"

func (ctl *Controller) handlePing(c *wsConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: events.TypePong,
	}
	ctl.sendJSON(c, resp)
}
