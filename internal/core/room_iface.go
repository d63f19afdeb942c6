package core

import "studyhall/internal/domain"

// PublishResult reports delivery stats/backpressure to the coordinator.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// MemberDTO is a read-only view for APIs and room snapshots (no transport
// fields). ConnID is exposed so clients can address signaling at each other.
type MemberDTO struct {
	ConnID   ConnID        `json:"connectionId"`
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
}

// RoomService is the core-facing API of a live room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	ID() domain.RoomID
	MemberCount() int
	MembersSnapshot() []MemberDTO

	// AddMember reports false when cid was already a member.
	AddMember(cid ConnID, ms MemberSession) bool
	// RemoveMember reports false when cid was not a member.
	RemoveMember(cid ConnID) bool
	// Broadcast fans data out to every member except from. Delivery is
	// best-effort per recipient; a full or closed send buffer lands the
	// recipient in Dropped without aborting the rest.
	Broadcast(from ConnID, data Frame) PublishResult
}
