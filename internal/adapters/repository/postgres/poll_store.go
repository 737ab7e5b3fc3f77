package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quorumpoll/quorum/internal/core/domain"
	"github.com/quorumpoll/quorum/internal/core/ports"
)

type pollStore struct {
	db *sql.DB
}

func NewPollStore(db *sql.DB) ports.PollStore {
	return &pollStore{db: db}
}

// Put writes the whole aggregate in one transaction. The polls row is the
// serialization point: the upsert only applies when the stored version
// matches the one the poll was loaded at, so concurrent writers lose with
// domain.ErrConflict instead of overwriting each other's tallies.
func (s *pollStore) Put(ctx context.Context, poll *domain.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, name, description, category, creator_id, creator_name, status, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8 + 1, $9)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, version = EXCLUDED.version
		WHERE polls.version = $8
	`
	res, err := tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Name, poll.Description, poll.Category,
		poll.CreatorID, poll.CreatorName, poll.Status, poll.Version, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: poll %s", domain.ErrConflict, poll.ID)
	}

	queryOption := `
		INSERT INTO poll_options (id, poll_id, label, votes, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET votes = EXCLUDED.votes
	`
	stmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for i, opt := range poll.Options {
		if _, err := stmt.ExecContext(ctx, opt.ID, poll.ID, opt.Label, opt.Votes, i); err != nil {
			return fmt.Errorf("failed to upsert option: %w", err)
		}
	}

	queryVote := `
		INSERT INTO poll_votes (poll_id, voter_id, option_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, voter_id) DO NOTHING
	`
	voteStmt, err := tx.PrepareContext(ctx, queryVote)
	if err != nil {
		return fmt.Errorf("failed to prepare vote statement: %w", err)
	}
	defer voteStmt.Close()

	for voterID, optionID := range poll.Votes {
		if _, err := voteStmt.ExecContext(ctx, poll.ID, voterID, optionID); err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	poll.Version++
	return nil
}

func (s *pollStore) Get(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, name, description, category, creator_id, creator_name, status, version, created_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := s.db.QueryRowContext(ctx, queryPoll, id).Scan(
		&poll.ID, &poll.Name, &poll.Description, &poll.Category,
		&poll.CreatorID, &poll.CreatorName, &poll.Status, &poll.Version, &poll.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPollNotFound, id)
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := s.hydrate(ctx, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

func (s *pollStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPollNotFound, id)
	}
	return nil
}

func (s *pollStore) ListAll(ctx context.Context) ([]*domain.Poll, error) {
	query := `
		SELECT id, name, description, category, creator_id, creator_name, status, version, created_at
		FROM polls
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID, &poll.Name, &poll.Description, &poll.Category,
			&poll.CreatorID, &poll.CreatorName, &poll.Status, &poll.Version, &poll.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	for _, poll := range polls {
		if err := s.hydrate(ctx, poll); err != nil {
			return nil, err
		}
	}
	return polls, nil
}

func (s *pollStore) hydrate(ctx context.Context, poll *domain.Poll) error {
	options, err := s.fetchOptions(ctx, poll.ID)
	if err != nil {
		return err
	}
	poll.Options = options

	votes, err := s.fetchVotes(ctx, poll.ID)
	if err != nil {
		return err
	}
	poll.Votes = votes
	return nil
}

func (s *pollStore) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.Option, error) {
	query := `
		SELECT id, label, votes
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.Option
	for rows.Next() {
		var opt domain.Option
		if err := rows.Scan(&opt.ID, &opt.Label, &opt.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}

func (s *pollStore) fetchVotes(ctx context.Context, pollID uuid.UUID) (map[string]uuid.UUID, error) {
	query := `
		SELECT voter_id, option_id
		FROM poll_votes
		WHERE poll_id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[string]uuid.UUID)
	for rows.Next() {
		var voterID string
		var optionID uuid.UUID
		if err := rows.Scan(&voterID, &optionID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes[voterID] = optionID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}
