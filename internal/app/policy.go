package app

import "studyhall/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer is full.
type Policy interface {
	OnBackPressure(room core.RoomService, cid core.ConnID) BackpressureAction
}

// DropPolicy keeps the member and loses the frame. Matches the best-effort
// delivery contract of broadcast events.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(core.RoomService, core.ConnID) BackpressureAction {
	return DropFrame
}

// EvictSlowPolicy disconnects members that cannot keep up.
type EvictSlowPolicy struct{}

func (EvictSlowPolicy) OnBackPressure(core.RoomService, core.ConnID) BackpressureAction {
	return KickMember
}
