package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"studyhall/internal/app"
	"studyhall/internal/auth"
	"studyhall/internal/config"
	"studyhall/internal/core"
	"studyhall/internal/domain"
	"studyhall/internal/metrics"
	"studyhall/internal/store"

	wsadapter "studyhall/internal/adapters/ws"
)

// ClientTokenMiddleware gives every browser a stable token so guests keep the
// same user id across reconnects.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// IdentityMiddleware resolves the caller identity: a valid bearer token wins,
// otherwise the caller is a guest keyed by its client token.
func IdentityMiddleware(verifier *auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := auth.BearerToken(c.GetHeader("Authorization")); tok != "" {
			if user, err := verifier.Verify(tok); err == nil {
				c.Set("identity", user)
				c.Next()
				return
			}
			log.Warn().Str("module", "adapters.http").Msg("invalid bearer token, falling back to guest")
		}
		c.Set("identity", domain.GuestUser(c.GetString("client_token")))
		c.Next()
	}
}

type roomResponse struct {
	*domain.Room
	CurrentParticipants int `json:"currentParticipants"`
}

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, rooms *store.Rooms) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	sessionStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("StudyhallSessions", sessionStore))
	r.Use(ClientTokenMiddleware())
	r.Use(IdentityMiddleware(auth.New(cfg.Secret)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	// GET /api/rooms — room records with live participant counts
	api.GET("/rooms", func(c *gin.Context) {
		records, err := rooms.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
			return
		}
		out := lo.Map(records, func(rec *domain.Room, _ int) roomResponse {
			return roomResponse{Room: rec, CurrentParticipants: coord.Rooms.Count(rec.ID)}
		})
		c.JSON(http.StatusOK, gin.H{"rooms": out})
	})

	// POST /api/rooms — create a room record
	api.POST("/rooms", func(c *gin.Context) {
		var req struct {
			Name            string `json:"name" binding:"required"`
			Subject         string `json:"subject" binding:"required"`
			Description     string `json:"description"`
			MaxParticipants int    `json:"maxParticipants"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room"})
			return
		}
		user, _ := c.Get("identity")
		room := &domain.Room{
			Name:            domain.RoomName(req.Name),
			Subject:         req.Subject,
			Description:     req.Description,
			HostUserID:      user.(*domain.User).ID,
			MaxParticipants: req.MaxParticipants,
		}
		if err := rooms.Create(room); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
			return
		}
		c.JSON(http.StatusCreated, roomResponse{Room: room})
	})

	// GET /api/rooms/:id — one record + live count
	api.GET("/rooms/:id", func(c *gin.Context) {
		id := domain.RoomID(c.Param("id"))
		rec, err := rooms.Get(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		if rec == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, roomResponse{Room: rec, CurrentParticipants: coord.Rooms.Count(id)})
	})

	// GET /api/rooms/:id/members — live member snapshot
	api.GET("/rooms/:id/members", func(c *gin.Context) {
		id := domain.RoomID(c.Param("id"))
		members := coord.Rooms.MembersOf(id)
		if members == nil {
			members = []core.MemberDTO{}
		}
		c.JSON(http.StatusOK, members)
	})

	ctl := wsadapter.NewController(coord, cfg.ReadLimit, cfg.PingPeriod, cfg.SendBuffer)
	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Msg("ws endpoint hit")
		ctl.Handle(ctx, c)
	})

	return r
}
