// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxDisplayNameLen = 36

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

type UserID string

// User is the caller identity handed over at connect time by the auth layer.
// The coordination subsystem trusts it and never re-validates it.
type User struct {
	ID          UserID `json:"id"`
	DisplayName string `json:"username"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(displayName string) (*User, error) {
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}
	return &User{ID: UserID(uuid.NewString()), DisplayName: displayName}, nil
}

// GuestUser builds an identity for callers without credentials, keyed by a
// stable client token so reconnects keep the same user id.
func GuestUser(token string) *User {
	return &User{ID: UserID(token), DisplayName: "guest"}
}

func (u *User) SetDisplayName(displayName string) error {
	if err := validateDisplayName(displayName); err != nil {
		return err
	}
	u.DisplayName = displayName
	return nil
}

func validateDisplayName(name string) error {
	if len(name) == 0 {
		return ErrDisplayNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return ErrDisplayNameTooLong
	}
	return nil
}
