package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumpoll/quorum/internal/core/domain"
)

func storedPoll(t *testing.T) *domain.Poll {
	t.Helper()
	registry := domain.NewCategoryRegistry(domain.DefaultCategories)
	creator := &domain.User{ID: "creator", Name: "Creator", Role: domain.RoleUser}
	poll, err := domain.NewPoll("p", "", []string{"A", "B"}, "sports", registry, creator, time.Now())
	require.NoError(t, err)
	return poll
}

func TestPutGetRoundTrip(t *testing.T) {
	store := NewPollStore()
	ctx := context.Background()
	poll := storedPoll(t)

	require.NoError(t, store.Put(ctx, poll))
	assert.Equal(t, int64(1), poll.Version)

	got, err := store.Get(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, poll.ID, got.ID)
	assert.Equal(t, poll.Version, got.Version)
	assert.Len(t, got.Options, 2)
}

func TestGetUnknownPoll(t *testing.T) {
	store := NewPollStore()
	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestPutDetectsStaleVersion(t *testing.T) {
	store := NewPollStore()
	ctx := context.Background()
	poll := storedPoll(t)
	require.NoError(t, store.Put(ctx, poll))

	stale := poll.Clone()
	stale.Version = 0

	err := store.Put(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// The current version still writes fine.
	require.NoError(t, store.Put(ctx, poll))
	assert.Equal(t, int64(2), poll.Version)
}

func TestDeleteRemovesPoll(t *testing.T) {
	store := NewPollStore()
	ctx := context.Background()
	poll := storedPoll(t)
	require.NoError(t, store.Put(ctx, poll))

	require.NoError(t, store.Delete(ctx, poll.ID))
	_, err := store.Get(ctx, poll.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	err = store.Delete(ctx, poll.ID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestListAllOrderedByCreation(t *testing.T) {
	store := NewPollStore()
	ctx := context.Background()

	first := storedPoll(t)
	second := storedPoll(t)
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	require.NoError(t, store.Put(ctx, second))
	require.NoError(t, store.Put(ctx, first))

	polls, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 2)
	assert.Equal(t, first.ID, polls[0].ID)
	assert.Equal(t, second.ID, polls[1].ID)
}

func TestStoredPollsAreIsolatedFromCallers(t *testing.T) {
	store := NewPollStore()
	ctx := context.Background()
	poll := storedPoll(t)
	require.NoError(t, store.Put(ctx, poll))

	got, err := store.Get(ctx, poll.ID)
	require.NoError(t, err)
	require.NoError(t, got.CastVote("intruder", got.Options[0].ID))

	again, err := store.Get(ctx, poll.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Votes)
}
