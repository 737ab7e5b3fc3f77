package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = NewCategoryRegistry(DefaultCategories)

func newTestPoll(t *testing.T, labels ...string) *Poll {
	t.Helper()
	creator := &User{ID: "creator-1", Name: "Creator", Role: RoleUser}
	poll, err := NewPoll("Favorite color", "pick one", labels, "lifestyle", testCategories, creator, time.Now())
	require.NoError(t, err)
	return poll
}

func TestNewPoll(t *testing.T) {
	poll := newTestPoll(t, "Red", "Blue")

	assert.NotEqual(t, uuid.Nil, poll.ID)
	assert.Equal(t, PollOpen, poll.Status)
	assert.Equal(t, "creator-1", poll.CreatorID)
	assert.Len(t, poll.Options, 2)
	assert.Empty(t, poll.Votes)
	for _, opt := range poll.Options {
		assert.Zero(t, opt.Votes)
	}
}

func TestNewPollValidation(t *testing.T) {
	creator := &User{ID: "creator-1", Name: "Creator", Role: RoleUser}
	now := time.Now()

	tests := []struct {
		name     string
		pollName string
		options  []string
		category string
	}{
		{"empty name", "", []string{"A", "B"}, "sports"},
		{"no options", "Poll", nil, "sports"},
		{"empty option label", "Poll", []string{"A", ""}, "sports"},
		{"duplicate options", "Poll", []string{"A", "A"}, "sports"},
		{"unknown category", "Poll", []string{"A", "B"}, "gardening"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPoll(tt.pollName, "", tt.options, tt.category, testCategories, creator, now)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCastVote(t *testing.T) {
	poll := newTestPoll(t, "Red", "Blue")
	red, blue := poll.Options[0].ID, poll.Options[1].ID

	require.NoError(t, poll.CastVote("alice", red))
	require.NoError(t, poll.CastVote("bob", blue))

	assert.Equal(t, int64(1), poll.Options[0].Votes)
	assert.Equal(t, int64(1), poll.Options[1].Votes)
	assert.Equal(t, int64(2), poll.TotalVotes())

	// A second vote by the same voter is rejected and changes nothing.
	err := poll.CastVote("alice", blue)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, int64(1), poll.Options[0].Votes)
	assert.Equal(t, int64(1), poll.Options[1].Votes)
	assert.Equal(t, red, poll.Votes["alice"])
}

func TestCastVoteTallyMatchesBallots(t *testing.T) {
	poll := newTestPoll(t, "A", "B", "C")

	voters := []string{"v1", "v2", "v3", "v4", "v5"}
	for i, voter := range voters {
		require.NoError(t, poll.CastVote(voter, poll.Options[i%3].ID))
	}

	assert.Equal(t, int64(len(poll.Votes)), poll.TotalVotes())
	assert.Len(t, poll.Votes, len(voters))
}

func TestCastVoteUnknownOption(t *testing.T) {
	poll := newTestPoll(t, "Red", "Blue")

	err := poll.CastVote("alice", uuid.New())
	assert.ErrorIs(t, err, ErrOptionNotFound)
	assert.Zero(t, poll.TotalVotes())
	assert.Empty(t, poll.Votes)
}

func TestCastVoteOnClosedPoll(t *testing.T) {
	poll := newTestPoll(t, "Red", "Blue")
	require.NoError(t, poll.CastVote("alice", poll.Options[0].ID))
	require.NoError(t, poll.Close())

	err := poll.CastVote("bob", poll.Options[1].ID)
	assert.ErrorIs(t, err, ErrPollClosed)
	assert.Equal(t, int64(1), poll.TotalVotes())
}

func TestCloseIsTerminal(t *testing.T) {
	poll := newTestPoll(t, "Red", "Blue")

	require.NoError(t, poll.Close())
	assert.Equal(t, PollClosed, poll.Status)

	err := poll.Close()
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.Equal(t, PollClosed, poll.Status)
}

func TestDetailsBallotVisibility(t *testing.T) {
	poll := newTestPoll(t, "Red", "Blue")
	require.NoError(t, poll.CastVote("alice", poll.Options[0].ID))

	withBallots := poll.Details(true)
	require.NotNil(t, withBallots.Ballots)
	assert.Equal(t, poll.Options[0].ID, withBallots.Ballots["alice"])

	withoutBallots := poll.Details(false)
	assert.Nil(t, withoutBallots.Ballots)
	assert.Equal(t, int64(1), withoutBallots.TotalVotes)
}

func TestCloneIsIndependent(t *testing.T) {
	poll := newTestPoll(t, "Red", "Blue")
	require.NoError(t, poll.CastVote("alice", poll.Options[0].ID))

	clone := poll.Clone()
	require.NoError(t, clone.CastVote("bob", clone.Options[1].ID))

	assert.Len(t, poll.Votes, 1)
	assert.Len(t, clone.Votes, 2)
	assert.Equal(t, int64(0), poll.Options[1].Votes)
}
