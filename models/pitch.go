package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PitchStatus represents the lifecycle state of a pitch
type PitchStatus string

const (
	PitchStatusDraft  PitchStatus = "draft"
	PitchStatusActive PitchStatus = "active"
	PitchStatusFunded PitchStatus = "funded"
	PitchStatusClosed PitchStatus = "closed"
)

var pitchStatusRank = map[PitchStatus]int{
	PitchStatusDraft:  0,
	PitchStatusActive: 1,
	PitchStatusFunded: 2,
	PitchStatusClosed: 3,
}

// IsValid reports whether the status is a known pitch status
func (s PitchStatus) IsValid() bool {
	_, ok := pitchStatusRank[s]
	return ok
}

// Rank returns the position of the status in the lifecycle
func (s PitchStatus) Rank() int {
	rank, ok := pitchStatusRank[s]
	if !ok {
		return -1
	}
	return rank
}

// CanTransitionTo reports whether moving to next keeps the lifecycle
// monotonic. Statuses only ever move forward.
func (s PitchStatus) CanTransitionTo(next PitchStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	return next.Rank() > s.Rank()
}

// Tier is an investment bracket with the multiplier used for shares
type Tier struct {
	Name       string          `json:"name"`
	MinAmount  int64           `json:"min_amount"`
	MaxAmount  int64           `json:"max_amount"` // 0 means no upper bound
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Accepts reports whether an investment amount falls within the tier
func (t Tier) Accepts(amount int64) bool {
	if amount < t.MinAmount {
		return false
	}
	return t.MaxAmount == 0 || amount <= t.MaxAmount
}

// Pitch is a business's funding campaign
type Pitch struct {
	ID            int64       `db:"id" json:"id"`
	BusinessID    int64       `db:"business_id" json:"business_id"`
	Title         string      `db:"title" json:"title"`
	Summary       string      `db:"summary" json:"summary"`
	Description   string      `db:"description" json:"description"`
	Industry      string      `db:"industry" json:"industry"`
	TargetAmount  int64       `db:"target_amount" json:"target_amount"`
	CurrentAmount int64       `db:"current_amount" json:"current_amount"`
	Status        PitchStatus `db:"status" json:"status"`
	Tiers         []Tier      `db:"tiers" json:"tiers"`
	EndDate       time.Time   `db:"end_date" json:"end_date"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// FindTier returns the tier with the given name
func (p *Pitch) FindTier(name string) (Tier, bool) {
	for _, tier := range p.Tiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return Tier{}, false
}

// IsOpenForInvestment checks if the pitch accepts investments at the given time
func (p *Pitch) IsOpenForInvestment(now time.Time) bool {
	return p.Status == PitchStatusActive && now.Before(p.EndDate)
}

// IsFullyFunded checks if the raised amount reached the target
func (p *Pitch) IsFullyFunded() bool {
	return p.CurrentAmount >= p.TargetAmount
}

// FundingProgress returns the raised amount as a percentage of the target
func (p *Pitch) FundingProgress() decimal.Decimal {
	if p.TargetAmount <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(p.CurrentAmount).
		Div(decimal.NewFromInt(p.TargetAmount)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// AcceptsDistributions checks if profit can be declared for the pitch
func (p *Pitch) AcceptsDistributions() bool {
	return p.Status == PitchStatusFunded || p.Status == PitchStatusClosed
}

// PitchFilter narrows the pitch browser listing
type PitchFilter struct {
	Search   string
	Industry string
	Statuses []PitchStatus
	Limit    int
	Offset   int
}
