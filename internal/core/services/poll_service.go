package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quorumpoll/quorum/internal/core/authz"
	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
)

// putRetries bounds optimistic-write retries against a contended poll
// before the conflict is surfaced to the caller.
const putRetries = 3

type pollService struct {
	store        ports.PollStore
	auth         *authz.Engine
	categories   *domain.CategoryRegistry
	locks        *pollLocks
	storeTimeout time.Duration
	now          func() time.Time
}

func NewPollService(store ports.PollStore, auth *authz.Engine, categories *domain.CategoryRegistry, storeTimeout time.Duration) ports.PollService {
	return &pollService{
		store:        store,
		auth:         auth,
		categories:   categories,
		locks:        newPollLocks(),
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, user *domain.User, input ports.CreatePollInput) (uuid.UUID, error) {
	if err := s.auth.Authorize(authz.ActionCreate, s.auth.EffectiveRoles(user, nil)); err != nil {
		return uuid.Nil, err
	}

	poll, err := domain.NewPoll(input.Name, input.Description, input.Options, input.Category, s.categories, user, s.now())
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.put(ctx, poll); err != nil {
		return uuid.Nil, fmt.Errorf("failed to persist poll: %w", err)
	}
	return poll.ID, nil
}

func (s *pollService) ListAll(ctx context.Context, user *domain.User) ([]domain.PollSummary, error) {
	if err := s.auth.Authorize(authz.ActionList, s.auth.EffectiveRoles(user, nil)); err != nil {
		return nil, err
	}

	timeoutCtx, cancel := s.bound(ctx)
	defer cancel()
	polls, err := s.store.ListAll(timeoutCtx)
	if err != nil {
		return nil, storeError(err)
	}

	summaries := make([]domain.PollSummary, 0, len(polls))
	for _, poll := range polls {
		summaries = append(summaries, poll.Summary())
	}
	return summaries, nil
}

func (s *pollService) Vote(ctx context.Context, user *domain.User, pollID, optionID uuid.UUID) (*domain.TallyView, error) {
	poll, err := s.update(ctx, user, pollID, authz.ActionVote, func(p *domain.Poll) error {
		return p.CastVote(user.ID, optionID)
	})
	if err != nil {
		return nil, err
	}
	return poll.Tally(), nil
}

func (s *pollService) Details(ctx context.Context, user *domain.User, pollID uuid.UUID) (*domain.PollDetails, error) {
	poll, err := s.get(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Authorize(authz.ActionDetails, s.auth.EffectiveRoles(user, poll)); err != nil {
		return nil, err
	}

	// Only the static admin role sees individual ballots. The creator, a
	// plain user, gets aggregate tallies like everyone else.
	return poll.Details(user.Role == domain.RoleAdmin), nil
}

func (s *pollService) Close(ctx context.Context, user *domain.User, pollID uuid.UUID) error {
	_, err := s.update(ctx, user, pollID, authz.ActionClose, func(p *domain.Poll) error {
		return p.Close()
	})
	return err
}

func (s *pollService) DeleteByID(ctx context.Context, user *domain.User, pollID uuid.UUID) (uuid.UUID, error) {
	unlock := s.locks.lock(pollID)
	defer unlock()

	poll, err := s.get(ctx, pollID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.auth.Authorize(authz.ActionDelete, s.auth.EffectiveRoles(user, poll)); err != nil {
		return uuid.Nil, err
	}

	timeoutCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.store.Delete(timeoutCtx, pollID); err != nil {
		return uuid.Nil, storeError(err)
	}
	return pollID, nil
}

// update runs one load-authorize-mutate-save cycle under the per-poll lock.
// The poll must be loaded before authorization so creator ownership can be
// derived from it; a missing poll is therefore reported ahead of any
// permission decision. Version conflicts from the store are retried with a
// fresh load a bounded number of times.
func (s *pollService) update(ctx context.Context, user *domain.User, pollID uuid.UUID, action authz.Action, mutate func(*domain.Poll) error) (*domain.Poll, error) {
	unlock := s.locks.lock(pollID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < putRetries; attempt++ {
		poll, err := s.get(ctx, pollID)
		if err != nil {
			return nil, err
		}
		if err := s.auth.Authorize(action, s.auth.EffectiveRoles(user, poll)); err != nil {
			return nil, err
		}
		if err := mutate(poll); err != nil {
			return nil, err
		}
		if err := s.put(ctx, poll); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return poll, nil
	}
	return nil, lastErr
}

func (s *pollService) get(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error) {
	timeoutCtx, cancel := s.bound(ctx)
	defer cancel()
	poll, err := s.store.Get(timeoutCtx, pollID)
	if err != nil {
		return nil, storeError(err)
	}
	return poll, nil
}

func (s *pollService) put(ctx context.Context, poll *domain.Poll) error {
	timeoutCtx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.store.Put(timeoutCtx, poll); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *pollService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// storeError keeps the domain taxonomy intact across the store boundary:
// deadline expiries become the timeout error, everything else passes
// through for errors.Is checks upstream.
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	}
	return err
}
