package app

import "errors"

// Coordination error kinds. All of them are recovered locally: logged,
// optionally surfaced to the originating connection, never fatal to anyone
// else's session.
var (
	// ErrDuplicateConnection signals a transport bug: connection ids are
	// allocated per upgrade and must never collide.
	ErrDuplicateConnection = errors.New("duplicate connection id")
	// ErrUnknownConnection means a stale or racing request referenced an
	// id that is no longer registered.
	ErrUnknownConnection = errors.New("unknown connection id")
	// ErrNotInRoom means a broadcast was attempted with no current room.
	ErrNotInRoom = errors.New("connection is not in a room")
	// ErrTargetUnavailable means a signaling relay target is gone.
	ErrTargetUnavailable = errors.New("relay target unavailable")

	// Join validation against the room store.
	ErrRoomNotFound = errors.New("room does not exist")
	ErrRoomFull     = errors.New("room is full")
)
