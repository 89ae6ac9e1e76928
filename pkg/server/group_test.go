package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMakesCreatorSoleMember(t *testing.T) {
	gr := NewGroupRegistry()

	require.True(t, gr.Create("team", "alice"))

	members, exists := gr.Members("team")
	require.True(t, exists)
	assert.Equal(t, []string{"alice"}, members)
	assert.True(t, gr.IsMember("team", "alice"))
}

func TestCreateDuplicateNameIsNoOp(t *testing.T) {
	gr := NewGroupRegistry()
	require.True(t, gr.Create("team", "alice"))

	assert.False(t, gr.Create("team", "bob"))

	// The original membership is untouched.
	members, exists := gr.Members("team")
	require.True(t, exists)
	assert.Equal(t, []string{"alice"}, members)
	assert.False(t, gr.IsMember("team", "bob"))
}

func TestJoinAndLeave(t *testing.T) {
	gr := NewGroupRegistry()
	require.True(t, gr.Create("team", "alice"))

	assert.True(t, gr.Join("team", "bob"))
	assert.True(t, gr.IsMember("team", "bob"))

	// Re-joining is a harmless no-op.
	assert.True(t, gr.Join("team", "bob"))
	members, _ := gr.Members("team")
	assert.Len(t, members, 2)

	assert.Equal(t, LeaveOK, gr.Leave("team", "bob"))
	assert.False(t, gr.IsMember("team", "bob"))
	assert.Equal(t, 1, gr.Count())
}

func TestJoinNonexistentGroup(t *testing.T) {
	gr := NewGroupRegistry()

	assert.False(t, gr.Join("ghost", "alice"))
	assert.Equal(t, 0, gr.Count())
}

func TestLeaveResults(t *testing.T) {
	gr := NewGroupRegistry()
	require.True(t, gr.Create("team", "alice"))

	assert.Equal(t, LeaveNoGroup, gr.Leave("ghost", "alice"))
	assert.Equal(t, LeaveNotMember, gr.Leave("team", "bob"))
	assert.Equal(t, LeaveOK, gr.Leave("team", "alice"))
}

func TestGroupDeletedWhenLastMemberLeaves(t *testing.T) {
	gr := NewGroupRegistry()
	require.True(t, gr.Create("team", "alice"))

	assert.Equal(t, LeaveOK, gr.Leave("team", "alice"))

	_, exists := gr.Members("team")
	assert.False(t, exists)
	assert.Equal(t, 0, gr.Count())

	// The name is reusable afterwards.
	assert.True(t, gr.Create("team", "bob"))
}

func TestRemoveMemberEverywhere(t *testing.T) {
	gr := NewGroupRegistry()
	require.True(t, gr.Create("team", "alice"))
	require.True(t, gr.Join("team", "bob"))
	require.True(t, gr.Create("solo", "bob"))
	require.True(t, gr.Create("other", "carol"))

	gr.RemoveMemberEverywhere("bob")

	assert.False(t, gr.IsMember("team", "bob"))
	assert.True(t, gr.IsMember("team", "alice"))

	// bob was solo's only member, so the group is gone.
	_, exists := gr.Members("solo")
	assert.False(t, exists)

	assert.True(t, gr.IsMember("other", "carol"))
	assert.Equal(t, 2, gr.Count())
}
