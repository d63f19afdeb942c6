package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"studyhall/internal/core"
	"studyhall/internal/domain"
)

func session(name string) core.MemberSession {
	user := &domain.User{ID: domain.UserID("u-" + name), DisplayName: name}
	return core.NewMemberSession(domain.NewMember(user), &fakeConn{})
}

func TestRoomTable_JoinCreatesOnDemand(t *testing.T) {
	req := require.New(t)
	table := NewRoomTable()

	// Given no live rooms
	req.Zero(table.RoomCount())

	// When the first member joins
	count, added := table.Join("room-1", "c1", session("alice"))

	// Then the room springs into existence with one member
	req.True(added)
	req.Equal(1, count)
	req.Equal(1, table.RoomCount())
}

func TestRoomTable_JoinTwiceIsIdempotent(t *testing.T) {
	req := require.New(t)
	table := NewRoomTable()
	table.Join("room-1", "c1", session("alice"))

	count, added := table.Join("room-1", "c1", session("alice"))
	req.False(added)
	req.Equal(1, count)
}

func TestRoomTable_LastLeaveReclaimsTheRoom(t *testing.T) {
	req := require.New(t)
	table := NewRoomTable()
	table.Join("room-1", "c1", session("alice"))
	table.Join("room-1", "c2", session("bob"))

	count, removed := table.Leave("room-1", "c1")
	req.True(removed)
	req.Equal(1, count)
	req.Equal(1, table.RoomCount())

	// When the last member leaves, no dangling empty room survives
	count, removed = table.Leave("room-1", "c2")
	req.True(removed)
	req.Zero(count)
	req.Zero(table.RoomCount())
	_, ok := table.Get("room-1")
	req.False(ok)
}

func TestRoomTable_LeaveNonMemberIsANoOp(t *testing.T) {
	req := require.New(t)
	table := NewRoomTable()
	table.Join("room-1", "c1", session("alice"))

	// Leaving a room you are not in reports the current count, no change
	count, removed := table.Leave("room-1", "stranger")
	req.False(removed)
	req.Equal(1, count)

	// Leaving a room that does not exist is equally harmless
	count, removed = table.Leave("nope", "c1")
	req.False(removed)
	req.Zero(count)
}

func TestRoomTable_MembersOf(t *testing.T) {
	req := require.New(t)
	table := NewRoomTable()
	table.Join("room-1", "c1", session("alice"))
	table.Join("room-1", "c2", session("bob"))

	members := table.MembersOf("room-1")
	req.Len(members, 2)
	ids := []core.ConnID{members[0].ConnID, members[1].ConnID}
	req.ElementsMatch([]core.ConnID{"c1", "c2"}, ids)

	req.Nil(table.MembersOf("empty"))
}
