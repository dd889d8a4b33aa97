package models

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertClubInvariants(t *testing.T, c *Club) {
	t.Helper()
	assert.NotEmpty(t, c.Admins)
	assert.LessOrEqual(t, len(c.Admins), MaxClubAdmins)
	for _, a := range c.Admins {
		assert.True(t, c.IsMember(a), "admin %d is not a member", a)
	}
	for _, b := range c.Banned {
		assert.False(t, c.IsMember(b))
		assert.False(t, slices.Contains(c.Pending, b))
	}
}

func TestClubJoin(t *testing.T) {
	t.Run("auto join", func(t *testing.T) {
		c := NewClub("noir", "", "", true, 1)
		joined, err := c.Join(2)
		require.NoError(t, err)
		assert.True(t, joined)
		_, err = c.Join(2)
		assert.ErrorIs(t, err, ErrAlreadyMember)
		assertClubInvariants(t, c)
	})
	t.Run("pending", func(t *testing.T) {
		c := NewClub("noir", "", "", false, 1)
		joined, err := c.Join(2)
		require.NoError(t, err)
		assert.False(t, joined)
		assert.Equal(t, []int64{2}, c.Pending)
		_, err = c.Join(2)
		assert.ErrorIs(t, err, ErrAlreadyPending)

		assert.ErrorIs(t, c.ResolvePending(2, 2, true), ErrNotClubAdmin)
		require.NoError(t, c.ResolvePending(1, 2, true))
		assert.True(t, c.IsMember(2))
		assert.Empty(t, c.Pending)
	})
	t.Run("banned", func(t *testing.T) {
		c := NewClub("noir", "", "", true, 1)
		require.NoError(t, c.Ban(1, 3))
		_, err := c.Join(3)
		assert.ErrorIs(t, err, ErrBannedFromClub)
	})
	t.Run("disabled", func(t *testing.T) {
		c := NewClub("noir", "", "", true, 1)
		require.NoError(t, c.SetDisabled(1, true))
		_, err := c.Join(3)
		assert.ErrorIs(t, err, ErrClubDisabled)
	})
}

func TestClubAdmins(t *testing.T) {
	c := NewClub("noir", "", "", true, 1)
	for id := int64(2); id <= 9; id++ {
		_, err := c.Join(id)
		require.NoError(t, err)
	}
	assert.ErrorIs(t, c.AddAdmin(2, 3), ErrNotClubAdmin)
	for id := int64(2); id <= 7; id++ {
		require.NoError(t, c.AddAdmin(1, id))
	}
	assert.ErrorIs(t, c.AddAdmin(1, 8), ErrTooManyAdmins)
	assert.ErrorIs(t, c.AddAdmin(1, 2), ErrAlreadyAdmin)
	assert.ErrorIs(t, c.AddAdmin(1, 42), ErrNotClubMember)
	assertClubInvariants(t, c)

	for id := int64(2); id <= 7; id++ {
		require.NoError(t, c.RemoveAdmin(1, id))
	}
	assert.ErrorIs(t, c.RemoveAdmin(1, 1), ErrLastAdmin)
	assert.ErrorIs(t, c.RemoveAdmin(1, 5), ErrNotAdmin)
	assertClubInvariants(t, c)
}

func TestClubBanKeepsSetsDisjoint(t *testing.T) {
	c := NewClub("noir", "", "", false, 1)
	_, _ = c.Join(2)
	require.NoError(t, c.ResolvePending(1, 2, true))
	require.NoError(t, c.AddAdmin(1, 2))
	_, _ = c.Join(3)

	require.NoError(t, c.Ban(1, 2))
	require.NoError(t, c.Ban(1, 3))
	assert.False(t, c.IsAdmin(2))
	assert.Empty(t, c.Pending)
	assertClubInvariants(t, c)

	assert.ErrorIs(t, c.Ban(1, 1), ErrLastAdmin)
	require.NoError(t, c.Unban(1, 2))
	assert.ErrorIs(t, c.Unban(1, 2), ErrNotBanned)
	assert.False(t, c.IsMember(2))
}

func TestClubRemoveMember(t *testing.T) {
	c := NewClub("noir", "", "", true, 1)
	_, _ = c.Join(2)
	_, _ = c.Join(3)
	assert.ErrorIs(t, c.RemoveMember(2, 3), ErrNotClubAdmin)
	require.NoError(t, c.RemoveMember(3, 3))
	require.NoError(t, c.RemoveMember(1, 2))
	assert.ErrorIs(t, c.RemoveMember(1, 1), ErrLastAdmin)
	assert.ErrorIs(t, c.RemoveMember(1, 9), ErrNotClubMember)
	assertClubInvariants(t, c)
}
