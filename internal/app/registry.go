package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"studyhall/internal/core"
	"studyhall/internal/domain"
)

type connEntry struct {
	User    *domain.User
	Session core.MemberSession
	RoomID  domain.RoomID
	Cancel  context.CancelFunc
}

// Connection is a read-only view of one registry entry.
type Connection struct {
	ID      core.ConnID
	User    *domain.User
	Session core.MemberSession
	RoomID  domain.RoomID
}

// Registry is the single source of truth for which connection ids exist and
// what room each one occupies. Shared across all connection goroutines.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

// Register inserts a new entry with no room. The cancel func tears down the
// connection's serving goroutines when the entry is evicted from outside.
func (r *Registry) Register(cid core.ConnID, user *domain.User, sess core.MemberSession, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[cid]; ok {
		return ErrDuplicateConnection
	}
	r.conns[cid] = &connEntry{User: user, Session: sess, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("user", string(user.ID)).Msg("connection registered")
	return nil
}

func (r *Registry) Lookup(cid core.ConnID) (Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok {
		return Connection{}, ErrUnknownConnection
	}
	return Connection{ID: cid, User: e.User, Session: e.Session, RoomID: e.RoomID}, nil
}

// SetRoom records the connection's current room; empty id clears it.
func (r *Registry) SetRoom(cid core.ConnID, roomID domain.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[cid]
	if !ok {
		return ErrUnknownConnection
	}
	e.RoomID = roomID
	log.Debug().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(roomID)).Msg("room updated")
	return nil
}

// RoomOf returns the connection's current room, if it has one.
func (r *Registry) RoomOf(cid core.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

// Remove is idempotent: removing an already-absent id is a no-op, which
// absorbs duplicate disconnect notifications from the transport.
func (r *Registry) Remove(cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[cid]; !ok {
		return
	}
	delete(r.conns, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("connection removed")
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Cancel tears down the serving goroutines of a connection, if it still
// exists. Used when a policy decision evicts a member.
func (r *Registry) Cancel(cid core.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("canceled connection")
	return true
}
