package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PollStatus string

const (
	PollOpen   PollStatus = "open"
	PollClosed PollStatus = "closed"
)

type Poll struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Options     []Option   `json:"options"`
	CreatorID   string     `json:"creator_id"`
	CreatorName string     `json:"creator_name"`
	CreatedAt   time.Time  `json:"created_at"`
	Status      PollStatus `json:"status"`

	// Votes maps a voter id to the option they chose. At most one entry
	// per voter; the sum of option tallies always equals len(Votes).
	Votes map[string]uuid.UUID `json:"-"`

	// Version backs optimistic writes in the store. Incremented by the
	// store on every successful put.
	Version int64 `json:"-"`
}

type Option struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Votes int64     `json:"votes"`
}

// NewPoll builds an open poll with zero tallies. Option membership is fixed
// from here on; only tallies and status may change.
func NewPoll(name, description string, optionLabels []string, category string, categories *CategoryRegistry, creator *User, now time.Time) (*Poll, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(optionLabels) == 0 {
		return nil, fmt.Errorf("%w: at least one option is required", ErrValidation)
	}
	if !categories.Exists(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	seen := make(map[string]struct{}, len(optionLabels))
	options := make([]Option, 0, len(optionLabels))
	for _, label := range optionLabels {
		if label == "" {
			return nil, fmt.Errorf("%w: option label must not be empty", ErrValidation)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: duplicate option %q", ErrValidation, label)
		}
		seen[label] = struct{}{}
		options = append(options, Option{ID: uuid.New(), Label: label})
	}

	return &Poll{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Category:    category,
		Options:     options,
		CreatorID:   creator.ID,
		CreatorName: creator.Name,
		CreatedAt:   now,
		Status:      PollOpen,
		Votes:       make(map[string]uuid.UUID),
	}, nil
}

// CastVote records a single vote for voterID. Each voter votes at most once
// per poll; a vote cannot be changed afterwards.
func (p *Poll) CastVote(voterID string, optionID uuid.UUID) error {
	if p.Status == PollClosed {
		return fmt.Errorf("%w: poll %s", ErrPollClosed, p.ID)
	}
	if _, voted := p.Votes[voterID]; voted {
		return fmt.Errorf("%w: poll %s", ErrAlreadyVoted, p.ID)
	}
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			if p.Votes == nil {
				p.Votes = make(map[string]uuid.UUID)
			}
			p.Votes[voterID] = optionID
			p.Options[i].Votes++
			return nil
		}
	}
	return fmt.Errorf("%w: option %s on poll %s", ErrOptionNotFound, optionID, p.ID)
}

// Close transitions the poll from open to closed. There is no way back.
func (p *Poll) Close() error {
	if p.Status == PollClosed {
		return fmt.Errorf("%w: poll %s", ErrAlreadyClosed, p.ID)
	}
	p.Status = PollClosed
	return nil
}

func (p *Poll) TotalVotes() int64 {
	var total int64
	for _, opt := range p.Options {
		total += opt.Votes
	}
	return total
}

// Clone returns a deep copy so callers can hand out polls without sharing
// the options slice or the vote map.
func (p *Poll) Clone() *Poll {
	cp := *p
	cp.Options = make([]Option, len(p.Options))
	copy(cp.Options, p.Options)
	cp.Votes = make(map[string]uuid.UUID, len(p.Votes))
	for voter, option := range p.Votes {
		cp.Votes[voter] = option
	}
	return &cp
}
