package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Investment links an investor to a pitch with an amount and the tier chosen
type Investment struct {
	ID             int64           `db:"id" json:"id"`
	InvestorID     uuid.UUID       `db:"investor_id" json:"investor_id"`
	PitchID        int64           `db:"pitch_id" json:"pitch_id"`
	Amount         int64           `db:"amount" json:"amount"`
	TierName       string          `db:"tier_name" json:"tier_name"`
	TierMultiplier decimal.Decimal `db:"tier_multiplier" json:"tier_multiplier"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Shares returns the investment's weight in profit distributions
func (i *Investment) Shares() decimal.Decimal {
	return decimal.NewFromInt(i.Amount).Mul(i.TierMultiplier)
}

// InvestmentResult is returned after a successful investment
type InvestmentResult struct {
	Investment *Investment `json:"investment"`
	Pitch      *Pitch      `json:"pitch"`
	NewBalance int64       `json:"new_balance"`
}
