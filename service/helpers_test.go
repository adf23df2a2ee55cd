package service

import (
	"time"

	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestUoW returns a factory handing out one mock unit of work that
// expects Begin and the deferred Rollback
func newTestUoW() (*MockUnitOfWorkFactory, *MockUnitOfWork) {
	uow := NewMockUnitOfWork()
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)
	return factory, uow
}

func testInvestor(balance int64) *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       "investor@example.com",
		DisplayName: "Ivy Investor",
		Role:        models.RoleInvestor,
		Balance:     balance,
	}
}

func testBusinessOwner(balance int64) (*models.User, *models.BusinessUser) {
	user := &models.User{
		ID:          uuid.New(),
		Email:       "owner@example.com",
		DisplayName: "Olga Owner",
		Role:        models.RoleBusiness,
		Balance:     balance,
	}
	profile := &models.BusinessUser{
		ID:          7,
		UserID:      user.ID,
		CompanyName: "Acme Robotics",
	}
	return user, profile
}

func testTiers() []models.Tier {
	return []models.Tier{
		{Name: "bronze", MinAmount: 100, MaxAmount: 99999, Multiplier: decimal.NewFromInt(1)},
		{Name: "gold", MinAmount: 100000, Multiplier: decimal.RequireFromString("1.5")},
	}
}

func testPitch(businessID int64, status models.PitchStatus) *models.Pitch {
	return &models.Pitch{
		ID:           42,
		BusinessID:   businessID,
		Title:        "Solar Farms",
		TargetAmount: 1_000_000,
		Status:       status,
		Tiers:        testTiers(),
		EndDate:      testNow.Add(30 * 24 * time.Hour),
	}
}

// expectOwner sets up the lookups requireBusiness performs
func expectOwner(uow *MockUnitOfWork, user *models.User, profile *models.BusinessUser) {
	uow.Users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	uow.Businesses.On("GetByUserID", mock.Anything, user.ID).Return(profile, nil)
}

// expectBalanceChange sets up the calls ApplyBalanceChange performs for a user
func expectBalanceChange(uow *MockUnitOfWork, user *models.User, transactionType models.TransactionType, amount int64) {
	uow.Users.On("GetByIDForUpdate", mock.Anything, user.ID).Return(user, nil).Once()
	uow.Users.On("UpdateBalance", mock.Anything, user.ID, user.Balance+amount).Return(nil).Once()
	uow.Transactions.On("Record", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == user.ID &&
			tx.Type == transactionType &&
			tx.Amount == amount &&
			tx.BalanceBefore == user.Balance &&
			tx.BalanceAfter == user.Balance+amount
	})).Return(nil).Once()
}
