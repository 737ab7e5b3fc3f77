package domain

import (
	"time"

	"github.com/google/uuid"
)

// PollSummary is the list projection. It never carries tallies or voter
// identities, regardless of who asks.
type PollSummary struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Status      PollStatus `json:"status"`
	CreatorName string     `json:"creator_name"`
}

type OptionTally struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Votes int64     `json:"votes"`
}

// TallyView is what a successful vote returns: the updated per-option counts.
type TallyView struct {
	PollID     uuid.UUID     `json:"poll_id"`
	Status     PollStatus    `json:"status"`
	TotalVotes int64         `json:"total_votes"`
	Options    []OptionTally `json:"options"`
}

// PollDetails is the detail projection. Ballots is populated only for
// admin callers; everyone else sees aggregate tallies only.
type PollDetails struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Category    string               `json:"category"`
	Status      PollStatus           `json:"status"`
	CreatorID   string               `json:"creator_id"`
	CreatorName string               `json:"creator_name"`
	CreatedAt   time.Time            `json:"created_at"`
	TotalVotes  int64                `json:"total_votes"`
	Options     []OptionTally        `json:"options"`
	Ballots     map[string]uuid.UUID `json:"ballots,omitempty"`
}

func (p *Poll) Summary() PollSummary {
	return PollSummary{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Status:      p.Status,
		CreatorName: p.CreatorName,
	}
}

func (p *Poll) Tally() *TallyView {
	return &TallyView{
		PollID:     p.ID,
		Status:     p.Status,
		TotalVotes: p.TotalVotes(),
		Options:    p.optionTallies(),
	}
}

// Details projects the poll for one caller. includeBallots hands out the
// voter-to-option mapping and must only be set for admin callers.
func (p *Poll) Details(includeBallots bool) *PollDetails {
	d := &PollDetails{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Status:      p.Status,
		CreatorID:   p.CreatorID,
		CreatorName: p.CreatorName,
		CreatedAt:   p.CreatedAt,
		TotalVotes:  p.TotalVotes(),
		Options:     p.optionTallies(),
	}
	if includeBallots {
		d.Ballots = make(map[string]uuid.UUID, len(p.Votes))
		for voter, option := range p.Votes {
			d.Ballots[voter] = option
		}
	}
	return d
}

func (p *Poll) optionTallies() []OptionTally {
	tallies := make([]OptionTally, len(p.Options))
	for i, opt := range p.Options {
		tallies[i] = OptionTally{ID: opt.ID, Label: opt.Label, Votes: opt.Votes}
	}
	return tallies
}
