// Package events defines the JSON wire protocol of the coordination
// subsystem: inbound client envelopes and the frames fanned back out.
package events

import (
	"encoding/json"
	"time"

	"studyhall/internal/core"
	"studyhall/internal/domain"
)

// Inbound event names.
const (
	TypeJoinRoom         = "join-room"
	TypeLeaveRoom        = "leave-room"
	TypeChatMessage      = "chat-message"
	TypeSignalOffer      = "signal-offer"
	TypeSignalAnswer     = "signal-answer"
	TypeSignalICE        = "signal-ice"
	TypeDocumentUpdate   = "document-update"
	TypeCursorUpdate     = "cursor-update"
	TypeWhiteboardUpdate = "whiteboard-update"
	TypeScreenShareStart = "screen-share-start"
	TypeScreenShareStop  = "screen-share-stop"
	TypePing             = "ping"
)

// Outbound-only event names.
const (
	TypeRoomSnapshot = "room-snapshot"
	TypeMemberJoined = "member-joined"
	TypeMemberLeft   = "member-left"
	TypePong         = "pong"
	TypeError        = "error"
)

// Envelope is the minimal shape every inbound message must have.
type Envelope struct {
	Type string `json:"type"`
}

type JoinRoom struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type ChatMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Signal addresses a point-to-point relay at a concrete connection.
type Signal struct {
	Type               string          `json:"type"`
	TargetConnectionID string          `json:"targetConnectionId"`
	Payload            json.RawMessage `json:"payload"`
}

// Broadcastable carries an opaque payload fanned out to the sender's room
// (document, cursor, whiteboard and screen-share events).
type Broadcastable struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type Identity struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
}

func IdentityOf(u *domain.User) Identity {
	return Identity{ID: u.ID, Username: u.DisplayName}
}

// RoomSnapshot goes to the joining connection only.
type RoomSnapshot struct {
	Type    string           `json:"type"`
	RoomID  domain.RoomID    `json:"roomId"`
	Members []core.MemberDTO `json:"members"`
	Count   int              `json:"count"`
}

// PresenceDelta announces member-joined / member-left to the rest of a room.
type PresenceDelta struct {
	Type         string        `json:"type"`
	ConnectionID core.ConnID   `json:"connectionId"`
	Identity     Identity      `json:"identity"`
	RoomID       domain.RoomID `json:"roomId"`
	Count        int           `json:"count"`
}

// ChatDelivery is a chat message as seen by the other members.
type ChatDelivery struct {
	Type            string    `json:"type"`
	ID              string    `json:"id"`
	FromIdentity    Identity  `json:"fromIdentity"`
	Text            string    `json:"text"`
	ServerTimestamp time.Time `json:"serverTimestamp"`
}

// BroadcastDelivery preserves the inbound event name and annotates the
// payload with the sender and a server-assigned timestamp.
type BroadcastDelivery struct {
	Type             string          `json:"type"`
	FromConnectionID core.ConnID     `json:"fromConnectionId"`
	FromIdentity     Identity        `json:"fromIdentity"`
	Payload          json.RawMessage `json:"payload"`
	ServerTimestamp  time.Time       `json:"serverTimestamp"`
}

// SignalDelivery is a relayed signaling envelope, tagged with the sender's
// connection id so the target can address its reply.
type SignalDelivery struct {
	Type             string          `json:"type"`
	FromConnectionID core.ConnID     `json:"fromConnectionId"`
	Payload          json.RawMessage `json:"payload"`
}

type Error struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewError(msg string) Error {
	return Error{Type: TypeError, Error: msg}
}

// IsBroadcast reports whether an inbound event name fans out to the room.
func IsBroadcast(eventType string) bool {
	switch eventType {
	case TypeDocumentUpdate, TypeCursorUpdate, TypeWhiteboardUpdate,
		TypeScreenShareStart, TypeScreenShareStop:
		return true
	}
	return false
}

// IsSignal reports whether an inbound event name is a point-to-point relay.
func IsSignal(eventType string) bool {
	switch eventType {
	case TypeSignalOffer, TypeSignalAnswer, TypeSignalICE:
		return true
	}
	return false
}
