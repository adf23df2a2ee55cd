package server

import (
	"context"
	"time"

	"fundbridge/models"
	"fundbridge/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) SignUp(ctx context.Context, req service.SignUpRequest) (*models.Session, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*service.Claims)
	return claims, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}

func (m *mockUsers) GetBusinessProfile(ctx context.Context, userID uuid.UUID) (*models.BusinessUser, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.BusinessUser)
	return profile, args.Error(1)
}

func (m *mockUsers) UpsertBusinessProfile(ctx context.Context, userID uuid.UUID, profile *models.BusinessUser) (*models.BusinessUser, error) {
	args := m.Called(ctx, userID, profile)
	result, _ := args.Get(0).(*models.BusinessUser)
	return result, args.Error(1)
}

type mockPitches struct{ mock.Mock }

func (m *mockPitches) CreatePitch(ctx context.Context, ownerID uuid.UUID, req service.CreatePitchRequest) (*models.Pitch, error) {
	args := m.Called(ctx, ownerID, req)
	pitch, _ := args.Get(0).(*models.Pitch)
	return pitch, args.Error(1)
}

func (m *mockPitches) UpdatePitch(ctx context.Context, ownerID uuid.UUID, pitchID int64, req service.UpdatePitchRequest) (*models.Pitch, error) {
	args := m.Called(ctx, ownerID, pitchID, req)
	pitch, _ := args.Get(0).(*models.Pitch)
	return pitch, args.Error(1)
}

func (m *mockPitches) ChangeStatus(ctx context.Context, ownerID uuid.UUID, pitchID int64, status models.PitchStatus) (*models.Pitch, error) {
	args := m.Called(ctx, ownerID, pitchID, status)
	pitch, _ := args.Get(0).(*models.Pitch)
	return pitch, args.Error(1)
}

func (m *mockPitches) GetPitch(ctx context.Context, viewerID uuid.UUID, pitchID int64) (*models.Pitch, error) {
	args := m.Called(ctx, viewerID, pitchID)
	pitch, _ := args.Get(0).(*models.Pitch)
	return pitch, args.Error(1)
}

func (m *mockPitches) BrowsePitches(ctx context.Context, filter models.PitchFilter) ([]*models.Pitch, error) {
	args := m.Called(ctx, filter)
	pitches, _ := args.Get(0).([]*models.Pitch)
	return pitches, args.Error(1)
}

func (m *mockPitches) GetPitchInvestors(ctx context.Context, ownerID uuid.UUID, pitchID int64) ([]*models.PitchInvestor, error) {
	args := m.Called(ctx, ownerID, pitchID)
	investors, _ := args.Get(0).([]*models.PitchInvestor)
	return investors, args.Error(1)
}

func (m *mockPitches) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*models.BusinessDashboard, error) {
	args := m.Called(ctx, ownerID)
	dashboard, _ := args.Get(0).(*models.BusinessDashboard)
	return dashboard, args.Error(1)
}

type mockInvestments struct{ mock.Mock }

func (m *mockInvestments) Invest(ctx context.Context, investorID uuid.UUID, pitchID int64, amount int64, tierName string) (*models.InvestmentResult, error) {
	args := m.Called(ctx, investorID, pitchID, amount, tierName)
	result, _ := args.Get(0).(*models.InvestmentResult)
	return result, args.Error(1)
}

func (m *mockInvestments) GetInvestments(ctx context.Context, investorID uuid.UUID) ([]*models.Investment, error) {
	args := m.Called(ctx, investorID)
	investments, _ := args.Get(0).([]*models.Investment)
	return investments, args.Error(1)
}

type mockDistributions struct{ mock.Mock }

func (m *mockDistributions) Declare(ctx context.Context, ownerID uuid.UUID, pitchID int64, totalProfit int64, date time.Time) (*models.DistributionResult, error) {
	args := m.Called(ctx, ownerID, pitchID, totalProfit, date)
	result, _ := args.Get(0).(*models.DistributionResult)
	return result, args.Error(1)
}

func (m *mockDistributions) GetDistributions(ctx context.Context, viewerID uuid.UUID, pitchID int64) ([]*models.ProfitDistribution, error) {
	args := m.Called(ctx, viewerID, pitchID)
	distributions, _ := args.Get(0).([]*models.ProfitDistribution)
	return distributions, args.Error(1)
}

func (m *mockDistributions) GetPayouts(ctx context.Context, investorID uuid.UUID) ([]*models.InvestorPayout, error) {
	args := m.Called(ctx, investorID)
	payouts, _ := args.Get(0).([]*models.InvestorPayout)
	return payouts, args.Error(1)
}

func (m *mockDistributions) GetDistributionPayouts(ctx context.Context, viewerID uuid.UUID, pitchID, distributionID int64) ([]*models.InvestorPayout, error) {
	args := m.Called(ctx, viewerID, pitchID, distributionID)
	payouts, _ := args.Get(0).([]*models.InvestorPayout)
	return payouts, args.Error(1)
}

type mockPortfolios struct{ mock.Mock }

func (m *mockPortfolios) GetPortfolio(ctx context.Context, investorID uuid.UUID) (*models.Portfolio, error) {
	args := m.Called(ctx, investorID)
	portfolio, _ := args.Get(0).(*models.Portfolio)
	return portfolio, args.Error(1)
}

type mockWallet struct{ mock.Mock }

func (m *mockWallet) Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *mockWallet) Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error) {
	args := m.Called(ctx, userID, amount)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *mockWallet) GetTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	transactions, _ := args.Get(0).([]*models.Transaction)
	return transactions, args.Error(1)
}

func (m *mockWallet) GetTransactionsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, since)
	transactions, _ := args.Get(0).([]*models.Transaction)
	return transactions, args.Error(1)
}

type mockCampaigns struct{ mock.Mock }

func (m *mockCampaigns) CreateCampaign(ctx context.Context, ownerID uuid.UUID, req service.CreateCampaignRequest) (*models.AdCampaign, error) {
	args := m.Called(ctx, ownerID, req)
	campaign, _ := args.Get(0).(*models.AdCampaign)
	return campaign, args.Error(1)
}

func (m *mockCampaigns) GetCampaigns(ctx context.Context, ownerID uuid.UUID) ([]*models.AdCampaign, error) {
	args := m.Called(ctx, ownerID)
	campaigns, _ := args.Get(0).([]*models.AdCampaign)
	return campaigns, args.Error(1)
}

func (m *mockCampaigns) ChangeStatus(ctx context.Context, ownerID uuid.UUID, campaignID int64, status models.AdCampaignStatus) (*models.AdCampaign, error) {
	args := m.Called(ctx, ownerID, campaignID, status)
	campaign, _ := args.Get(0).(*models.AdCampaign)
	return campaign, args.Error(1)
}
