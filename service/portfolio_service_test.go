package service

import (
	"context"
	"testing"

	"fundbridge/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPortfolioService_GetPortfolio(t *testing.T) {
	investor := testInvestor(0)
	solar := testPitch(7, models.PitchStatusFunded)
	wind := testPitch(7, models.PitchStatusActive)
	wind.ID = 43
	wind.Title = "Wind Parks"

	investments := []*models.Investment{
		{InvestorID: investor.ID, PitchID: solar.ID, Amount: 10_000, TierMultiplier: decimal.NewFromInt(1)},
		{InvestorID: investor.ID, PitchID: wind.ID, Amount: 5_000, TierMultiplier: decimal.NewFromInt(1)},
		{InvestorID: investor.ID, PitchID: solar.ID, Amount: 10_000, TierMultiplier: decimal.RequireFromString("1.5")},
	}
	payouts := []*models.InvestorPayout{
		{InvestorID: investor.ID, PitchID: solar.ID, Amount: 30_000},
	}

	factory, uow := newTestUoW()
	uow.Users.On("GetByID", mock.Anything, investor.ID).Return(investor, nil)
	uow.Investments.On("GetByInvestor", mock.Anything, investor.ID).Return(investments, nil)
	uow.Payouts.On("GetByInvestor", mock.Anything, investor.ID).Return(payouts, nil)
	uow.Pitches.On("GetByIDs", mock.Anything, []int64{solar.ID, wind.ID}).Return([]*models.Pitch{solar, wind}, nil)
	other := testInvestor(0)
	pitchInvestments := append([]*models.Investment{
		{InvestorID: other.ID, PitchID: solar.ID, Amount: 75_000, TierMultiplier: decimal.NewFromInt(1)},
	}, investments...)
	uow.Investments.On("GetByPitches", mock.Anything, []int64{solar.ID, wind.ID}).Return(pitchInvestments, nil)

	portfolio, err := NewPortfolioService(factory).GetPortfolio(context.Background(), investor.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(25_000), portfolio.TotalInvested)
	assert.Equal(t, int64(30_000), portfolio.TotalReturns)
	assert.Equal(t, "20", portfolio.ROI.String())

	require.Len(t, portfolio.Holdings, 2)
	assert.Equal(t, "Solar Farms", portfolio.Holdings[0].PitchTitle)
	assert.Equal(t, "50", portfolio.Holdings[0].ROI.String())
	assert.Equal(t, "25000", portfolio.Holdings[0].Shares.String())
	assert.Equal(t, "25", portfolio.Holdings[0].SharePercent.String())
	assert.Equal(t, "100", portfolio.Holdings[1].SharePercent.String())
	assert.Equal(t, "Wind Parks", portfolio.Holdings[1].PitchTitle)
	assert.Equal(t, "-100", portfolio.Holdings[1].ROI.String())

	uow.AssertRepositoryExpectations(t)
}

func TestPortfolioService_GetPortfolio_Empty(t *testing.T) {
	investor := testInvestor(0)
	factory, uow := newTestUoW()
	uow.Users.On("GetByID", mock.Anything, investor.ID).Return(investor, nil)
	uow.Investments.On("GetByInvestor", mock.Anything, investor.ID).Return([]*models.Investment{}, nil)
	uow.Payouts.On("GetByInvestor", mock.Anything, investor.ID).Return([]*models.InvestorPayout{}, nil)

	portfolio, err := NewPortfolioService(factory).GetPortfolio(context.Background(), investor.ID)

	require.NoError(t, err)
	assert.Zero(t, portfolio.TotalInvested)
	assert.True(t, portfolio.ROI.IsZero())
	uow.Pitches.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	uow.Investments.AssertNotCalled(t, "GetByPitches", mock.Anything, mock.Anything)
}

func TestPortfolioService_GetPortfolio_BusinessForbidden(t *testing.T) {
	owner, _ := testBusinessOwner(0)
	factory, uow := newTestUoW()
	uow.Users.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)

	_, err := NewPortfolioService(factory).GetPortfolio(context.Background(), owner.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
