package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitDistribution is a declared payout event for a pitch
type ProfitDistribution struct {
	ID               int64     `db:"id" json:"id"`
	PitchID          int64     `db:"pitch_id" json:"pitch_id"`
	TotalProfit      int64     `db:"total_profit" json:"total_profit"`
	DistributionDate time.Time `db:"distribution_date" json:"distribution_date"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// InvestorPayout is one investor's share of a profit distribution
type InvestorPayout struct {
	ID             int64           `db:"id" json:"id"`
	DistributionID int64           `db:"distribution_id" json:"distribution_id"`
	PitchID        int64           `db:"pitch_id" json:"pitch_id"`
	InvestorID     uuid.UUID       `db:"investor_id" json:"investor_id"`
	Shares         decimal.Decimal `db:"shares" json:"shares"`
	Amount         int64           `db:"amount" json:"amount"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// DistributionResult is returned after a profit distribution is declared
type DistributionResult struct {
	Distribution *ProfitDistribution `json:"distribution"`
	Payouts      []*InvestorPayout   `json:"payouts"`
	TotalShares  decimal.Decimal     `json:"total_shares"`
}

// PaidOut sums the payout amounts of the result
func (r *DistributionResult) PaidOut() int64 {
	var total int64
	for _, payout := range r.Payouts {
		total += payout.Amount
	}
	return total
}
