package core

import "studyhall/internal/domain"

// ConnID identifies one live client session. Opaque, unique for the life of
// the connection, never reused while the connection is registered.
type ConnID string

// MemberSession binds domain.Member and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	Meta() *domain.Member
	Signal() SignalConnection
}
