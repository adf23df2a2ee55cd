package aggregation

import (
	"bytes"
	"sort"

	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildPortfolio reduces an investor's investments and payouts into
// per-pitch holdings. investments may hold every investment in the
// investor's pitches; rows of other investors only count towards the share
// of pitch. Pitches missing from the map still produce a holding with an
// empty title.
func BuildPortfolio(
	investorID uuid.UUID,
	investments []*models.Investment,
	payouts []*models.InvestorPayout,
	pitches map[int64]*models.Pitch,
) *models.Portfolio {
	holdings := make(map[int64]*models.Holding)

	holdingFor := func(pitchID int64) *models.Holding {
		holding, ok := holdings[pitchID]
		if !ok {
			holding = &models.Holding{PitchID: pitchID, Shares: decimal.Zero}
			if pitch, found := pitches[pitchID]; found {
				holding.PitchTitle = pitch.Title
				holding.PitchStatus = pitch.Status
			}
			holdings[pitchID] = holding
		}
		return holding
	}

	pitchShares := make(map[int64]decimal.Decimal)
	for _, investment := range investments {
		pitchShares[investment.PitchID] = pitchShares[investment.PitchID].Add(investment.Shares())
		if investment.InvestorID != investorID {
			continue
		}
		holding := holdingFor(investment.PitchID)
		holding.Invested += investment.Amount
		holding.Shares = holding.Shares.Add(investment.Shares())
		holding.InvestmentCount++
	}

	for _, payout := range payouts {
		if payout.InvestorID != investorID {
			continue
		}
		holdingFor(payout.PitchID).Returns += payout.Amount
	}

	portfolio := &models.Portfolio{
		InvestorID:  investorID,
		Holdings:    make([]*models.Holding, 0, len(holdings)),
		TotalShares: decimal.Zero,
	}
	for _, holding := range holdings {
		holding.ROI = ROI(holding.Returns, holding.Invested)
		holding.SharePercent = Percent(holding.Shares, pitchShares[holding.PitchID])
		portfolio.Holdings = append(portfolio.Holdings, holding)
		portfolio.TotalInvested += holding.Invested
		portfolio.TotalReturns += holding.Returns
		portfolio.TotalShares = portfolio.TotalShares.Add(holding.Shares)
	}
	portfolio.ROI = ROI(portfolio.TotalReturns, portfolio.TotalInvested)

	sort.Slice(portfolio.Holdings, func(i, j int) bool {
		if portfolio.Holdings[i].Invested != portfolio.Holdings[j].Invested {
			return portfolio.Holdings[i].Invested > portfolio.Holdings[j].Invested
		}
		return portfolio.Holdings[i].PitchID < portfolio.Holdings[j].PitchID
	})

	return portfolio
}

// PitchInvestors groups a pitch's investments by investor. Display names are
// looked up in names; unknown investors keep an empty name.
func PitchInvestors(investments []*models.Investment, names map[uuid.UUID]string) []*models.PitchInvestor {
	byInvestor := make(map[uuid.UUID]*models.PitchInvestor)
	totalShares := decimal.Zero

	for _, investment := range investments {
		investor, ok := byInvestor[investment.InvestorID]
		if !ok {
			investor = &models.PitchInvestor{
				InvestorID:  investment.InvestorID,
				DisplayName: names[investment.InvestorID],
				Shares:      decimal.Zero,
			}
			byInvestor[investment.InvestorID] = investor
		}
		shares := investment.Shares()
		investor.Invested += investment.Amount
		investor.Shares = investor.Shares.Add(shares)
		investor.InvestmentCount++
		totalShares = totalShares.Add(shares)
	}

	result := make([]*models.PitchInvestor, 0, len(byInvestor))
	for _, investor := range byInvestor {
		investor.SharePercent = Percent(investor.Shares, totalShares)
		result = append(result, investor)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Invested != result[j].Invested {
			return result[i].Invested > result[j].Invested
		}
		return bytes.Compare(result[i].InvestorID[:], result[j].InvestorID[:]) < 0
	})

	return result
}

// SummarizePitch builds the business dashboard row of a pitch
func SummarizePitch(
	pitch *models.Pitch,
	investments []*models.Investment,
	distributions []*models.ProfitDistribution,
) *models.PitchSummary {
	investors := make(map[uuid.UUID]struct{})
	for _, investment := range investments {
		if investment.PitchID == pitch.ID {
			investors[investment.InvestorID] = struct{}{}
		}
	}

	summary := &models.PitchSummary{
		Pitch:         pitch,
		Progress:      pitch.FundingProgress(),
		InvestorCount: len(investors),
	}
	for _, distribution := range distributions {
		if distribution.PitchID != pitch.ID {
			continue
		}
		summary.TotalDistributed += distribution.TotalProfit
		summary.Distributions++
	}
	return summary
}

// BuildDashboard aggregates pitch summaries into the business dashboard
func BuildDashboard(business *models.BusinessUser, summaries []*models.PitchSummary) *models.BusinessDashboard {
	dashboard := &models.BusinessDashboard{
		Business: business,
		Pitches:  summaries,
	}
	if dashboard.Pitches == nil {
		dashboard.Pitches = []*models.PitchSummary{}
	}
	for _, summary := range summaries {
		dashboard.TotalRaised += summary.Pitch.CurrentAmount
		dashboard.TotalDistributed += summary.TotalDistributed
		if summary.Pitch.Status == models.PitchStatusActive {
			dashboard.ActivePitches++
		}
	}
	return dashboard
}
