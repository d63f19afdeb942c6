package domain

import "time"

type (
	RoomName string
	RoomID   string
)

// Room is the persisted study-room record. Live membership lives in the
// coordination layer, not here; CurrentParticipants is filled from it when
// the record is served over the API.
type Room struct {
	ID              RoomID    `json:"id"`
	Name            RoomName  `json:"name"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description,omitempty"`
	HostUserID      UserID    `json:"hostUserId"`
	MaxParticipants int       `json:"maxParticipants"`
	CreatedAt       time.Time `json:"createdAt"`
}

const DefaultMaxParticipants = 8
