package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studyhall/internal/domain"
)

func openTestStore(t *testing.T) *Rooms {
	t.Helper()
	rooms, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rooms.Close() })
	return rooms
}

func TestRooms_CreateAndGet(t *testing.T) {
	req := require.New(t)
	rooms := openTestStore(t)

	room := &domain.Room{Name: "calculus crunch", Subject: "math", HostUserID: "u-1"}
	req.NoError(rooms.Create(room))

	// Create assigns id, creation time and the default capacity
	req.NotEmpty(room.ID)
	req.False(room.CreatedAt.IsZero())
	req.Equal(domain.DefaultMaxParticipants, room.MaxParticipants)

	got, err := rooms.Get(room.ID)
	req.NoError(err)
	req.NotNil(got)
	req.Equal(room.Name, got.Name)
	req.Equal(room.Subject, got.Subject)
}

func TestRooms_GetMissingReturnsNil(t *testing.T) {
	req := require.New(t)
	rooms := openTestStore(t)

	got, err := rooms.Get("missing")
	req.NoError(err)
	req.Nil(got)

	ok, err := rooms.Exists("missing")
	req.NoError(err)
	req.False(ok)
}

func TestRooms_DuplicateCreate(t *testing.T) {
	req := require.New(t)
	rooms := openTestStore(t)

	room := &domain.Room{ID: "fixed", Name: "physics", Subject: "physics", HostUserID: "u-1"}
	req.NoError(rooms.Create(room))
	req.ErrorIs(rooms.Create(&domain.Room{ID: "fixed", Name: "other", Subject: "x", HostUserID: "u-2"}), ErrRoomExists)
}

func TestRooms_List(t *testing.T) {
	req := require.New(t)
	rooms := openTestStore(t)

	req.NoError(rooms.Create(&domain.Room{Name: "a", Subject: "s", HostUserID: "u-1"}))
	req.NoError(rooms.Create(&domain.Room{Name: "b", Subject: "s", HostUserID: "u-2"}))

	all, err := rooms.List()
	req.NoError(err)
	req.Len(all, 2)
}
