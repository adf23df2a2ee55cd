// Package aggregation reduces fetched investment and payout rows into
// shares, payout allocations, ROI figures and dashboard summaries.
package aggregation

import (
	"bytes"
	"sort"

	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Allocation is one investor's computed part of a profit distribution
type Allocation struct {
	InvestorID uuid.UUID
	Shares     decimal.Decimal
	Amount     int64
}

// Shares returns amount multiplied by the tier multiplier
func Shares(amount int64, multiplier decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(amount).Mul(multiplier)
}

// SharesByInvestor sums the shares of every investor across the investments
func SharesByInvestor(investments []*models.Investment) map[uuid.UUID]decimal.Decimal {
	shares := make(map[uuid.UUID]decimal.Decimal)
	for _, investment := range investments {
		current, ok := shares[investment.InvestorID]
		if !ok {
			current = decimal.Zero
		}
		shares[investment.InvestorID] = current.Add(investment.Shares())
	}
	return shares
}

// TotalShares sums the shares of all investments
func TotalShares(investments []*models.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, investment := range investments {
		total = total.Add(investment.Shares())
	}
	return total
}

// AllocatePayouts splits totalProfit across investors in proportion to their
// shares. Each investor first receives the floor of their exact share; the
// cents lost to flooring go one at a time to the largest remainders, ties
// broken by investor id, so the allocations always sum to totalProfit.
// Investors without shares receive nothing and are omitted.
func AllocatePayouts(totalProfit int64, investments []*models.Investment) []Allocation {
	if totalProfit <= 0 {
		return nil
	}

	byInvestor := SharesByInvestor(investments)
	totalShares := decimal.Zero
	for _, shares := range byInvestor {
		if shares.IsPositive() {
			totalShares = totalShares.Add(shares)
		}
	}
	if !totalShares.IsPositive() {
		return nil
	}

	type entry struct {
		allocation Allocation
		remainder  decimal.Decimal
	}

	profit := decimal.NewFromInt(totalProfit)
	entries := make([]*entry, 0, len(byInvestor))
	var allocated int64

	for investorID, shares := range byInvestor {
		if !shares.IsPositive() {
			continue
		}
		// Exact integer division: numerator = base*totalShares + remainder
		base, remainder := profit.Mul(shares).QuoRem(totalShares, 0)

		entries = append(entries, &entry{
			allocation: Allocation{
				InvestorID: investorID,
				Shares:     shares,
				Amount:     base.IntPart(),
			},
			remainder: remainder,
		})
		allocated += base.IntPart()
	}

	sort.Slice(entries, func(i, j int) bool {
		if cmp := entries[i].remainder.Cmp(entries[j].remainder); cmp != 0 {
			return cmp > 0
		}
		return bytes.Compare(entries[i].allocation.InvestorID[:], entries[j].allocation.InvestorID[:]) < 0
	})

	leftover := totalProfit - allocated
	for i := 0; leftover > 0 && i < len(entries); i++ {
		entries[i].allocation.Amount++
		leftover--
	}

	allocations := make([]Allocation, len(entries))
	for i, e := range entries {
		allocations[i] = e.allocation
	}
	sortAllocations(allocations)
	return allocations
}

// sortAllocations orders allocations by amount descending, then investor id
func sortAllocations(allocations []Allocation) {
	sort.SliceStable(allocations, func(i, j int) bool {
		if allocations[i].Amount != allocations[j].Amount {
			return allocations[i].Amount > allocations[j].Amount
		}
		return bytes.Compare(allocations[i].InvestorID[:], allocations[j].InvestorID[:]) < 0
	})
}

// ROI returns (returns - invested) / invested * 100 rounded to two places.
// A zero investment yields zero.
func ROI(returns, invested int64) decimal.Decimal {
	if invested <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(returns - invested).
		Div(decimal.NewFromInt(invested)).
		Mul(hundred).
		Round(2)
}

// Percent returns part / whole * 100 rounded to two places
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
