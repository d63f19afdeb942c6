package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"studyhall/internal/app"
	"studyhall/internal/core"
	"studyhall/internal/domain"
	"studyhall/internal/events"
)

// Controller owns the WebSocket side of the coordination service: upgrade,
// the per-connection pump goroutines, and envelope dispatch into the
// coordinator.
type Controller struct {
	Coord      *app.Coordinator
	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int

	chatLimiter *ChatRateLimiter
}

func NewController(coord *app.Coordinator, readLimit int64, pingPeriod time.Duration, sendBuffer int) *Controller {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &Controller{
		Coord:       coord,
		ReadLimit:   readLimit,
		PingPeriod:  pingPeriod,
		SendBuffer:  sendBuffer,
		chatLimiter: NewChatRateLimiter(20, 10*time.Second),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the request and attaches the connection to the
// coordinator. The identity comes from the auth middleware; the connection id
// is allocated here, one per live session.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	user, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}
	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "adapters.ws").Str("cid", string(cid)).Str("user", string(user.ID)).Msg("new WS connection")

	wsc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("ws upgrade")
		return
	}

	conn := newWSConn(wsc, ctl.SendBuffer)
	sess := core.NewMemberSession(domain.NewMember(user), conn)

	ctx, cancel := context.WithCancel(ctx)
	if err := ctl.Coord.OnConnect(cid, user, sess, cancel); err != nil {
		cancel()
		conn.Close()
		return
	}

	go ctl.writePump(ctx, cid, conn)
	go ctl.readPump(ctx, cid, conn, user)
}

// identityFrom reads the identity the auth middleware stored on the request.
func identityFrom(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get("identity")
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *Controller) sendError(c *wsConn, msg string) {
	ctl.sendJSON(c, events.NewError(msg))
}
