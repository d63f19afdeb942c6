package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studyhall/internal/core"
	"studyhall/internal/domain"
)

func registerOne(t *testing.T, r *Registry, cid core.ConnID) *domain.User {
	t.Helper()
	user := &domain.User{ID: domain.UserID("u-" + cid), DisplayName: string(cid)}
	sess := core.NewMemberSession(domain.NewMember(user), &fakeConn{})
	require.NoError(t, r.Register(cid, user, sess, nil))
	return user
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()

	// Given no connections
	req.Zero(r.Count())

	// When one registers
	user := registerOne(t, r, "c1")

	// Then it is visible with no room yet
	conn, err := r.Lookup("c1")
	req.NoError(err)
	req.Equal(user, conn.User)
	req.Empty(conn.RoomID)
	req.Equal(1, r.Count())
}

func TestRegistry_DuplicateRegisterIsAnError(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	user := registerOne(t, r, "c1")

	sess := core.NewMemberSession(domain.NewMember(user), &fakeConn{})
	req.ErrorIs(r.Register("c1", user, sess, nil), ErrDuplicateConnection)
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("missing")
	require.ErrorIs(t, err, ErrUnknownConnection)
}

func TestRegistry_SetRoom(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	registerOne(t, r, "c1")

	// Setting and clearing the room round-trips
	req.NoError(r.SetRoom("c1", "room-9"))
	roomID, ok := r.RoomOf("c1")
	req.True(ok)
	req.EqualValues("room-9", roomID)

	req.NoError(r.SetRoom("c1", ""))
	_, ok = r.RoomOf("c1")
	req.False(ok)

	// Unknown ids are a precise error, not a panic
	req.ErrorIs(r.SetRoom("ghost", "room-9"), ErrUnknownConnection)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	req := require.New(t)
	r := NewRegistry()
	registerOne(t, r, "c1")

	r.Remove("c1")
	req.Zero(r.Count())

	// A duplicate disconnect notification must be a no-op
	r.Remove("c1")
	req.Zero(r.Count())
}
