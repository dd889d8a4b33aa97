package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVotesAreExclusive(t *testing.T) {
	var v Votes
	require.NoError(t, v.Upvote(1))
	assert.ErrorIs(t, v.Upvote(1), ErrAlreadyUpvoted)
	require.NoError(t, v.Downvote(1))
	assert.Empty(t, v.Up)
	assert.Equal(t, []int64{1}, v.Down)
	assert.ErrorIs(t, v.Downvote(1), ErrAlreadyDownvoted)
	require.NoError(t, v.Upvote(2))
	assert.Equal(t, VoteCounts{Upvotes: 1, Downvotes: 1}, v.Counts())
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("clubDiscussion", "12")
	require.NoError(t, err)
	assert.Equal(t, Target{Kind: TargetClubDiscussion, ID: "12"}, target)

	_, err = ParseTarget("news", "1")
	assert.ErrorIs(t, err, ErrUnknownTarget)
	_, err = ParseTarget("movie", "")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestReactionsToggle(t *testing.T) {
	r := Reactions{}
	set, err := r.Toggle("love", 3)
	require.NoError(t, err)
	assert.True(t, set)
	set, err = r.Toggle("love", 3)
	require.NoError(t, err)
	assert.False(t, set)
	assert.Equal(t, 0, r.Counts()["love"])

	_, err = r.Toggle("meh", 3)
	assert.ErrorIs(t, err, ErrUnknownReaction)
}
