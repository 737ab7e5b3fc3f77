package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/quorumpoll/quorum/internal/core/domain"
)

// PollStore abstracts poll persistence. Put performs an optimistic write:
// it compares the poll's version against the stored one, returns
// domain.ErrConflict on mismatch and increments the version on success.
// Get returns domain.ErrPollNotFound for unknown ids.
type PollStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	Put(ctx context.Context, poll *domain.Poll) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]*domain.Poll, error)
}

type CreatePollInput struct {
	Name        string
	Description string
	Options     []string
	Category    string
}

type PollService interface {
	Create(ctx context.Context, user *domain.User, input CreatePollInput) (uuid.UUID, error)
	ListAll(ctx context.Context, user *domain.User) ([]domain.PollSummary, error)
	Vote(ctx context.Context, user *domain.User, pollID, optionID uuid.UUID) (*domain.TallyView, error)
	Details(ctx context.Context, user *domain.User, pollID uuid.UUID) (*domain.PollDetails, error)
	Close(ctx context.Context, user *domain.User, pollID uuid.UUID) error
	DeleteByID(ctx context.Context, user *domain.User, pollID uuid.UUID) (uuid.UUID, error)
}
