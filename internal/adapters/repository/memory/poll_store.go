// Package memory provides a mutex-guarded in-process PollStore. It backs
// unit and handler tests and local development without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
)

type pollStore struct {
	mu    sync.RWMutex
	polls map[uuid.UUID]*domain.Poll
}

func NewPollStore() ports.PollStore {
	return &pollStore{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (s *pollStore) Get(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	poll, ok := s.polls[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPollNotFound, id)
	}
	return poll.Clone(), nil
}

func (s *pollStore) Put(ctx context.Context, poll *domain.Poll) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.polls[poll.ID]; ok && stored.Version != poll.Version {
		return fmt.Errorf("%w: poll %s at version %d", domain.ErrConflict, poll.ID, stored.Version)
	}
	poll.Version++
	s.polls[poll.ID] = poll.Clone()
	return nil
}

func (s *pollStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.polls[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrPollNotFound, id)
	}
	delete(s.polls, id)
	return nil
}

func (s *pollStore) ListAll(ctx context.Context) ([]*domain.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	polls := make([]*domain.Poll, 0, len(s.polls))
	for _, poll := range s.polls {
		polls = append(polls, poll.Clone())
	}
	sort.Slice(polls, func(i, j int) bool {
		return polls[i].CreatedAt.Before(polls[j].CreatedAt)
	})
	return polls, nil
}
