package testutil

import (
	"fmt"
	"time"

	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestUser creates an unsaved test user with a unique email
func CreateTestUser(role models.Role) *models.User {
	id := uuid.New()
	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id.String()[:8]),
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtesth",
		DisplayName:  "Test " + string(role),
		Role:         role,
		Balance:      100000,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateTestUserWithBalance creates an unsaved test user with a specific balance
func CreateTestUserWithBalance(role models.Role, balance int64) *models.User {
	user := CreateTestUser(role)
	user.Balance = balance
	return user
}

// CreateTestBusinessProfile creates an unsaved business profile for a user
func CreateTestBusinessProfile(userID uuid.UUID) *models.BusinessUser {
	return &models.BusinessUser{
		UserID:      userID,
		CompanyName: "Acme Holdings",
		Industry:    "energy",
		Description: "Community solar",
		Location:    "Lisbon",
	}
}

// CreateTestTiers returns a bronze/gold tier pair
func CreateTestTiers() []models.Tier {
	return []models.Tier{
		{Name: "bronze", MinAmount: 100, MaxAmount: 99999, Multiplier: decimal.NewFromInt(1)},
		{Name: "gold", MinAmount: 100000, Multiplier: decimal.RequireFromString("1.5")},
	}
}

// CreateTestPitch creates an unsaved active pitch ending in thirty days
func CreateTestPitch(businessID int64) *models.Pitch {
	return &models.Pitch{
		BusinessID:   businessID,
		Title:        "Rooftop solar co-op",
		Summary:      "Solar panels for 40 homes",
		Description:  "Funding the first phase of a neighbourhood solar co-op",
		Industry:     "energy",
		TargetAmount: 1000000,
		Status:       models.PitchStatusActive,
		Tiers:        CreateTestTiers(),
		EndDate:      time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second),
	}
}

// CreateTestInvestment creates an unsaved investment in the bronze tier
func CreateTestInvestment(investorID uuid.UUID, pitchID int64, amount int64) *models.Investment {
	return &models.Investment{
		InvestorID:     investorID,
		PitchID:        pitchID,
		Amount:         amount,
		TierName:       "bronze",
		TierMultiplier: decimal.NewFromInt(1),
	}
}

// CreateTestTransaction creates an unsaved consistent ledger entry
func CreateTestTransaction(userID uuid.UUID, transactionType models.TransactionType, before, amount int64) *models.Transaction {
	return &models.Transaction{
		UserID:        userID,
		Type:          transactionType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  before + amount,
		Metadata: map[string]any{
			"test": true,
		},
	}
}
