package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"studyhall/internal/core"
	"studyhall/internal/domain"
	"studyhall/internal/events"
	"studyhall/internal/metrics"
)

// RoomStore is the narrow view of the persistent store the coordinator
// consults before letting a connection join. Get returns nil when no such
// room record exists.
type RoomStore interface {
	Get(id domain.RoomID) (*domain.Room, error)
}

// Coordinator owns the state machine of every connection's room
// participation: Connected-NoRoom -> InRoom -> Connected-NoRoom on leave,
// Terminated on disconnect from either state. It routes broadcast events to
// the sender's room and relays signaling envelopes point-to-point.
type Coordinator struct {
	Registry *Registry
	Rooms    *RoomTable
	Store    RoomStore
	Policy   Policy
}

func NewCoordinator(reg *Registry, rooms *RoomTable, store RoomStore) *Coordinator {
	return &Coordinator{
		Registry: reg,
		Rooms:    rooms,
		Store:    store,
		Policy:   DropPolicy{},
	}
}

// OnConnect registers a freshly upgraded connection. Initial state is
// Connected-NoRoom.
func (c *Coordinator) OnConnect(cid core.ConnID, user *domain.User, sess core.MemberSession, cancel context.CancelFunc) error {
	if err := c.Registry.Register(cid, user, sess, cancel); err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("cid", string(cid)).Msg("register failed")
		return err
	}
	metrics.ActiveConnections.Inc()
	return nil
}

// OnJoinRequest moves the connection into roomID, leaving any previous room
// first. The joiner gets a room-snapshot, everyone else a member-joined.
// Re-joining the current room is idempotent: the snapshot is refreshed and no
// presence delta goes out.
func (c *Coordinator) OnJoinRequest(cid core.ConnID, roomID domain.RoomID) error {
	conn, err := c.Registry.Lookup(cid)
	if err != nil {
		return err
	}

	if conn.RoomID == roomID {
		c.sendSnapshot(conn.Session, roomID)
		return nil
	}

	if err := c.validateJoin(roomID); err != nil {
		return err
	}

	if conn.RoomID != "" {
		c.leaveRoom(conn)
	}

	count, _ := c.Rooms.Join(roomID, cid, conn.Session)
	if err := c.Registry.SetRoom(cid, roomID); err != nil {
		// The connection vanished mid-join (disconnect race). Roll the
		// membership back so no ghost participant survives.
		c.Rooms.Leave(roomID, cid)
		return err
	}
	log.Info().Str("module", "app.coordinator").Str("cid", string(cid)).Str("room", string(roomID)).Int("count", count).Msg("joined room")

	c.fanout(roomID, cid, events.PresenceDelta{
		Type:         events.TypeMemberJoined,
		ConnectionID: cid,
		Identity:     events.IdentityOf(conn.User),
		RoomID:       roomID,
		Count:        count,
	})
	c.sendSnapshot(conn.Session, roomID)
	return nil
}

// OnLeaveRequest takes the connection back to Connected-NoRoom. No-op when it
// is not in a room.
func (c *Coordinator) OnLeaveRequest(cid core.ConnID) {
	conn, err := c.Registry.Lookup(cid)
	if err != nil || conn.RoomID == "" {
		return
	}
	c.leaveRoom(conn)
}

// OnDisconnect is the designated cancellation hook and must be reentrant: the
// transport may report the same disconnect more than once, and only the first
// call releases membership and emits member-left. It never blocks on the dead
// transport.
func (c *Coordinator) OnDisconnect(cid core.ConnID) {
	conn, err := c.Registry.Lookup(cid)
	if err != nil {
		return
	}
	if conn.RoomID != "" {
		c.leaveRoom(conn)
	}
	c.Registry.Remove(cid)
	metrics.ActiveConnections.Dec()
	log.Info().Str("module", "app.coordinator").Str("cid", string(cid)).Msg("connection terminated")
}

// Chat fans a chat message out to the sender's room, stamped with the sender
// identity, a server-assigned id and timestamp. The sender gets no echo.
func (c *Coordinator) Chat(cid core.ConnID, text string) (int, error) {
	conn, roomID, err := c.senderRoom(cid)
	if err != nil {
		return 0, err
	}
	metrics.EventsRouted.WithLabelValues(events.TypeChatMessage).Inc()
	return c.deliver(roomID, cid, events.ChatDelivery{
		Type:            events.TypeChatMessage,
		ID:              uuid.NewString(),
		FromIdentity:    events.IdentityOf(conn.User),
		Text:            text,
		ServerTimestamp: time.Now().UTC(),
	})
}

// Broadcast routes a payload-carrying event (document, cursor, whiteboard,
// screen-share) to every other member of the sender's room, preserving the
// event name.
func (c *Coordinator) Broadcast(cid core.ConnID, eventType string, payload json.RawMessage) (int, error) {
	conn, roomID, err := c.senderRoom(cid)
	if err != nil {
		return 0, err
	}
	metrics.EventsRouted.WithLabelValues(eventType).Inc()
	return c.deliver(roomID, cid, events.BroadcastDelivery{
		Type:             eventType,
		FromConnectionID: cid,
		FromIdentity:     events.IdentityOf(conn.User),
		Payload:          payload,
		ServerTimestamp:  time.Now().UTC(),
	})
}

// Relay forwards a signaling envelope point-to-point, tagged with the
// sender's connection id. Failure to resolve the target is reported to the
// sender only, never broadcast. No shared-room check is made: signaling is
// addressed explicitly by the client.
func (c *Coordinator) Relay(cid core.ConnID, eventType string, target core.ConnID, payload json.RawMessage) error {
	if _, err := c.Registry.Lookup(cid); err != nil {
		return err
	}
	dst, err := c.Registry.Lookup(target)
	if err != nil {
		log.Warn().Str("module", "app.coordinator").Str("cid", string(cid)).Str("target", string(target)).Msg("relay target gone")
		return ErrTargetUnavailable
	}
	metrics.EventsRouted.WithLabelValues(eventType).Inc()
	frame, err := marshalFrame(events.SignalDelivery{
		Type:             eventType,
		FromConnectionID: cid,
		Payload:          payload,
	})
	if err != nil {
		return err
	}
	if err := dst.Session.Signal().TrySend(frame); err != nil {
		// Target exists but cannot take the frame right now; relay is
		// best-effort past the existence check.
		metrics.DroppedSends.Inc()
		log.Warn().Err(err).Str("module", "app.coordinator").Str("target", string(target)).Msg("relay send dropped")
	}
	return nil
}

func (c *Coordinator) senderRoom(cid core.ConnID) (Connection, domain.RoomID, error) {
	conn, err := c.Registry.Lookup(cid)
	if err != nil {
		return Connection{}, "", err
	}
	if conn.RoomID == "" {
		return Connection{}, "", ErrNotInRoom
	}
	return conn, conn.RoomID, nil
}

// validateJoin consults the room store when one is wired. Store failures are
// logged and let the join through: the live path must not depend on the
// store's availability.
func (c *Coordinator) validateJoin(roomID domain.RoomID) error {
	if c.Store == nil {
		return nil
	}
	rec, err := c.Store.Get(roomID)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("room", string(roomID)).Msg("room store lookup failed")
		return nil
	}
	if rec == nil {
		return ErrRoomNotFound
	}
	if rec.MaxParticipants > 0 && c.Rooms.Count(roomID) >= rec.MaxParticipants {
		return ErrRoomFull
	}
	return nil
}

// leaveRoom releases the membership and tells the remaining members. Callers
// must have verified conn.RoomID is set.
func (c *Coordinator) leaveRoom(conn Connection) {
	count, removed := c.Rooms.Leave(conn.RoomID, conn.ID)
	_ = c.Registry.SetRoom(conn.ID, "")
	if !removed {
		return
	}
	log.Info().Str("module", "app.coordinator").Str("cid", string(conn.ID)).Str("room", string(conn.RoomID)).Int("count", count).Msg("left room")
	c.fanout(conn.RoomID, conn.ID, events.PresenceDelta{
		Type:         events.TypeMemberLeft,
		ConnectionID: conn.ID,
		Identity:     events.IdentityOf(conn.User),
		RoomID:       conn.RoomID,
		Count:        count,
	})
}

func (c *Coordinator) sendSnapshot(sess core.MemberSession, roomID domain.RoomID) {
	room, ok := c.Rooms.Get(roomID)
	if !ok {
		return
	}
	frame, err := marshalFrame(events.RoomSnapshot{
		Type:    events.TypeRoomSnapshot,
		RoomID:  roomID,
		Members: room.MembersSnapshot(),
		Count:   room.MemberCount(),
	})
	if err != nil {
		return
	}
	if err := sess.Signal().TrySend(frame); err != nil {
		metrics.DroppedSends.Inc()
		log.Warn().Err(err).Str("module", "app.coordinator").Str("room", string(roomID)).Msg("snapshot send dropped")
	}
}

// fanout broadcasts v to every member of roomID except exclude and applies
// the backpressure policy to recipients that could not take the frame.
func (c *Coordinator) fanout(roomID domain.RoomID, exclude core.ConnID, v any) int {
	room, ok := c.Rooms.Get(roomID)
	if !ok {
		return 0
	}
	frame, err := marshalFrame(v)
	if err != nil {
		return 0
	}
	res := room.Broadcast(exclude, frame)
	c.applyPolicy(room, res)
	return res.SentTo
}

func (c *Coordinator) deliver(roomID domain.RoomID, sender core.ConnID, v any) (int, error) {
	return c.fanout(roomID, sender, v), nil
}

func (c *Coordinator) applyPolicy(room core.RoomService, res core.PublishResult) {
	if len(res.Dropped) == 0 {
		return
	}
	metrics.DroppedSends.Add(float64(len(res.Dropped)))
	if c.Policy == nil {
		return
	}
	for _, cid := range res.Dropped {
		switch c.Policy.OnBackPressure(room, cid) {
		case KickMember:
			// Cancel tears down the serving goroutines; the transport's
			// disconnect path performs the actual cleanup.
			c.Registry.Cancel(cid)
		case DropFrame, NoAction:
		}
	}
}

func marshalFrame(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("frame marshal failed")
		return nil, err
	}
	return core.Frame(b), nil
}
