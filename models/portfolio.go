package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Holding aggregates one investor's position in one pitch
type Holding struct {
	PitchID         int64           `json:"pitch_id"`
	PitchTitle      string          `json:"pitch_title"`
	PitchStatus     PitchStatus     `json:"pitch_status"`
	Invested        int64           `json:"invested"`
	Shares          decimal.Decimal `json:"shares"`
	SharePercent    decimal.Decimal `json:"share_percent"` // Of all shares issued in the pitch
	Returns         int64           `json:"returns"`
	ROI             decimal.Decimal `json:"roi"`
	InvestmentCount int             `json:"investment_count"`
}

// Portfolio is an investor's full position with totals
type Portfolio struct {
	InvestorID    uuid.UUID       `json:"investor_id"`
	Holdings      []*Holding      `json:"holdings"`
	TotalInvested int64           `json:"total_invested"`
	TotalReturns  int64           `json:"total_returns"`
	TotalShares   decimal.Decimal `json:"total_shares"`
	ROI           decimal.Decimal `json:"roi"`
}

// PitchInvestor aggregates all investments of one investor in a pitch
type PitchInvestor struct {
	InvestorID      uuid.UUID       `json:"investor_id"`
	DisplayName     string          `json:"display_name"`
	Invested        int64           `json:"invested"`
	Shares          decimal.Decimal `json:"shares"`
	SharePercent    decimal.Decimal `json:"share_percent"`
	InvestmentCount int             `json:"investment_count"`
}

// PitchSummary is one row of the business dashboard
type PitchSummary struct {
	Pitch            *Pitch          `json:"pitch"`
	Progress         decimal.Decimal `json:"progress"`
	InvestorCount    int             `json:"investor_count"`
	TotalDistributed int64           `json:"total_distributed"`
	Distributions    int             `json:"distributions"`
}

// BusinessDashboard summarizes all pitches of a business
type BusinessDashboard struct {
	Business         *BusinessUser   `json:"business"`
	Pitches          []*PitchSummary `json:"pitches"`
	TotalRaised      int64           `json:"total_raised"`
	TotalDistributed int64           `json:"total_distributed"`
	ActivePitches    int             `json:"active_pitches"`
}
