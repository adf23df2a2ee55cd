package repository

import (
	"context"
	"testing"
	"time"

	"fundbridge/models"
	"fundbridge/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestmentRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(testDB.DB)
	_, business := createBusiness(t, ctx, users, NewBusinessUserRepository(testDB.DB))

	pitches := NewPitchRepository(testDB.DB)
	pitch := testutil.CreateTestPitch(business.ID)
	require.NoError(t, pitches.Create(ctx, pitch))

	investor := testutil.CreateTestUser(models.RoleInvestor)
	require.NoError(t, users.Create(ctx, investor))

	repo := NewInvestmentRepository(testDB.DB)

	first := testutil.CreateTestInvestment(investor.ID, pitch.ID, 5000)
	require.NoError(t, repo.Create(ctx, first))
	require.NotZero(t, first.ID)

	second := testutil.CreateTestInvestment(investor.ID, pitch.ID, 150000)
	second.TierName = "gold"
	second.TierMultiplier = decimal.RequireFromString("1.5")
	require.NoError(t, repo.Create(ctx, second))

	t.Run("by pitch keeps multiplier snapshot", func(t *testing.T) {
		investments, err := repo.GetByPitch(ctx, pitch.ID)
		require.NoError(t, err)
		require.Len(t, investments, 2)
		assert.Equal(t, first.ID, investments[0].ID)
		assert.True(t, investments[1].TierMultiplier.Equal(decimal.RequireFromString("1.5")))
		assert.True(t, investments[1].Shares().Equal(decimal.NewFromInt(225000)))
	})

	t.Run("by investor newest first", func(t *testing.T) {
		investments, err := repo.GetByInvestor(ctx, investor.ID)
		require.NoError(t, err)
		require.Len(t, investments, 2)
		assert.Equal(t, second.ID, investments[0].ID)
	})

	t.Run("by pitches", func(t *testing.T) {
		investments, err := repo.GetByPitches(ctx, []int64{pitch.ID})
		require.NoError(t, err)
		assert.Len(t, investments, 2)
	})

	t.Run("has invested", func(t *testing.T) {
		ok, err := repo.HasInvested(ctx, investor.ID, pitch.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.HasInvested(ctx, uuid.New(), pitch.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDistributionAndPayoutRepositories(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := NewUserRepository(testDB.DB)
	_, business := createBusiness(t, ctx, users, NewBusinessUserRepository(testDB.DB))

	pitch := testutil.CreateTestPitch(business.ID)
	require.NoError(t, NewPitchRepository(testDB.DB).Create(ctx, pitch))

	alice := testutil.CreateTestUser(models.RoleInvestor)
	bob := testutil.CreateTestUser(models.RoleInvestor)
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	distributions := NewProfitDistributionRepository(testDB.DB)
	payouts := NewInvestorPayoutRepository(testDB.DB)

	distribution := &models.ProfitDistribution{
		PitchID:          pitch.ID,
		TotalProfit:      1000,
		DistributionDate: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, distributions.Create(ctx, distribution))
	require.NotZero(t, distribution.ID)

	batch := []*models.InvestorPayout{
		{DistributionID: distribution.ID, PitchID: pitch.ID, InvestorID: alice.ID, Shares: decimal.NewFromInt(750), Amount: 750},
		{DistributionID: distribution.ID, PitchID: pitch.ID, InvestorID: bob.ID, Shares: decimal.RequireFromString("250.5"), Amount: 250},
	}
	require.NoError(t, payouts.CreateBatch(ctx, batch))
	assert.NotZero(t, batch[0].ID)
	assert.NotZero(t, batch[1].ID)

	t.Run("distributions of pitch", func(t *testing.T) {
		list, err := distributions.GetByPitch(ctx, pitch.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(1000), list[0].TotalProfit)
		assert.Equal(t, "2026-06-30", list[0].DistributionDate.Format("2006-01-02"))

		byPitches, err := distributions.GetByPitches(ctx, []int64{pitch.ID})
		require.NoError(t, err)
		assert.Len(t, byPitches, 1)
	})

	t.Run("payouts", func(t *testing.T) {
		list, err := payouts.GetByDistribution(ctx, distribution.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, alice.ID, list[0].InvestorID)

		bobs, err := payouts.GetByInvestor(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, bobs, 1)
		assert.Equal(t, "250.5", bobs[0].Shares.String())
	})

	t.Run("duplicate payout rejected", func(t *testing.T) {
		dup := []*models.InvestorPayout{
			{DistributionID: distribution.ID, PitchID: pitch.ID, InvestorID: alice.ID, Shares: decimal.NewFromInt(1), Amount: 1},
		}
		assert.Error(t, payouts.CreateBatch(ctx, dup))
	})

	t.Run("empty batch", func(t *testing.T) {
		assert.NoError(t, payouts.CreateBatch(ctx, nil))
	})
}
