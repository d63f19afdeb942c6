package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"studyhall/internal/core"
	"studyhall/internal/domain"
)

// RoomTable owns the live rooms: creation on first join, reclamation on last
// leave. A room exists here if and only if it has at least one member.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]core.RoomService)}
}

// Join adds the connection to the room, creating it on demand. It reports the
// new member count and whether the membership actually changed (false for an
// idempotent re-join).
func (t *RoomTable) Join(roomID domain.RoomID, cid core.ConnID, sess core.MemberSession) (int, bool) {
	// Held across the whole add so a racing Leave can never reclaim the
	// room between creation and the first membership entry.
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[roomID]
	if !ok {
		room = core.NewRoomService(roomID)
		t.rooms[roomID] = room
		log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room created")
	}
	added := room.AddMember(cid, sess)
	return room.MemberCount(), added
}

// Leave removes the connection and reclaims the room when it empties.
// A leave for a non-member or an unknown room is a no-op that reports the
// current count, which guards against double-leave races.
func (t *RoomTable) Leave(roomID domain.RoomID, cid core.ConnID) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[roomID]
	if !ok {
		return 0, false
	}
	removed := room.RemoveMember(cid)
	count := room.MemberCount()
	if count == 0 {
		delete(t.rooms, roomID)
		log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Msg("room reclaimed")
	}
	return count, removed
}

// Get returns the live room, if any connection currently occupies it.
func (t *RoomTable) Get(roomID domain.RoomID) (core.RoomService, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[roomID]
	return room, ok
}

// MembersOf is the read-only fan-out view used by routing and the API.
func (t *RoomTable) MembersOf(roomID domain.RoomID) []core.MemberDTO {
	t.mu.RLock()
	room, ok := t.rooms[roomID]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	return room.MembersSnapshot()
}

// Count reports the live participant count of a room, 0 when idle.
func (t *RoomTable) Count(roomID domain.RoomID) int {
	t.mu.RLock()
	room, ok := t.rooms[roomID]
	t.mu.RUnlock()
	if !ok {
		return 0
	}
	return room.MemberCount()
}

func (t *RoomTable) RoomCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
