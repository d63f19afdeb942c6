package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"studyhall/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources. Fan-out reads the member set under
// the same lock that guards mutation, so a racing join/leave never observes a
// torn set.
type roomImpl struct {
	id    domain.RoomID
	mu    sync.RWMutex
	bySID map[ConnID]MemberSession
}

func NewRoomService(id domain.RoomID) RoomService {
	return &roomImpl{
		id:    id,
		bySID: make(map[ConnID]MemberSession),
	}
}

func (r *roomImpl) ID() domain.RoomID { return r.id }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) AddMember(cid ConnID, ms MemberSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[cid]; ok {
		return false
	}
	r.bySID[cid] = ms
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("cid", string(cid)).Msg("member added")
	return true
}

func (r *roomImpl) RemoveMember(cid ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[cid]; !ok {
		return false
	}
	delete(r.bySID, cid)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("cid", string(cid)).Msg("member removed")
	return true
}

func (r *roomImpl) Broadcast(from ConnID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for cid, m := range r.bySID {
		if cid == from {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.bySID))
	for cid, ms := range r.bySID {
		u := ms.Meta().User
		out = append(out, MemberDTO{ConnID: cid, UserID: u.ID, Username: u.DisplayName})
	}
	return out
}
