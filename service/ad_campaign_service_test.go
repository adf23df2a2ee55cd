package service

import (
	"context"
	"testing"
	"time"

	"fundbridge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdCampaignService_CreateCampaign(t *testing.T) {
	owner, profile := testBusinessOwner(0)
	pitch := testPitch(profile.ID, models.PitchStatusActive)

	factory, uow := newTestUoW()
	uow.On("Commit").Return(nil)
	expectOwner(uow, owner, profile)
	uow.Pitches.On("GetByID", mock.Anything, pitch.ID).Return(pitch, nil)
	uow.Campaigns.On("Create", mock.Anything, mock.MatchedBy(func(c *models.AdCampaign) bool {
		return c.BusinessID == profile.ID &&
			c.PitchID == pitch.ID &&
			c.Status == models.AdCampaignStatusDraft &&
			c.Name == "Spring push"
	})).Return(nil)

	campaign, err := NewAdCampaignService(factory).CreateCampaign(context.Background(), owner.ID, CreateCampaignRequest{
		PitchID:   pitch.ID,
		Name:      " Spring push ",
		Budget:    50_000,
		StartDate: testNow,
		EndDate:   testNow.Add(14 * 24 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(50_000), campaign.Budget)
	uow.AssertExpectations(t)
	uow.AssertRepositoryExpectations(t)
}

func TestAdCampaignService_CreateCampaign_Validation(t *testing.T) {
	svc := NewAdCampaignService(new(MockUnitOfWorkFactory))
	owner, _ := testBusinessOwner(0)

	tests := []struct {
		name string
		req  CreateCampaignRequest
	}{
		{"blank name", CreateCampaignRequest{Name: " ", Budget: 1, StartDate: testNow, EndDate: testNow.Add(time.Hour)}},
		{"zero budget", CreateCampaignRequest{Name: "x", Budget: 0, StartDate: testNow, EndDate: testNow.Add(time.Hour)}},
		{"end before start", CreateCampaignRequest{Name: "x", Budget: 1, StartDate: testNow, EndDate: testNow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCampaign(context.Background(), owner.ID, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAdCampaignService_ChangeStatus(t *testing.T) {
	owner, profile := testBusinessOwner(0)

	newCampaign := func(status models.AdCampaignStatus) *models.AdCampaign {
		return &models.AdCampaign{ID: 3, BusinessID: profile.ID, Status: status}
	}

	t.Run("pause running campaign", func(t *testing.T) {
		factory, uow := newTestUoW()
		uow.On("Commit").Return(nil)
		expectOwner(uow, owner, profile)
		uow.Campaigns.On("GetByID", mock.Anything, int64(3)).Return(newCampaign(models.AdCampaignStatusRunning), nil)
		uow.Campaigns.On("UpdateStatus", mock.Anything, int64(3), models.AdCampaignStatusPaused).Return(nil)

		campaign, err := NewAdCampaignService(factory).ChangeStatus(context.Background(), owner.ID, 3, models.AdCampaignStatusPaused)

		require.NoError(t, err)
		assert.Equal(t, models.AdCampaignStatusPaused, campaign.Status)
	})

	t.Run("ended is terminal", func(t *testing.T) {
		factory, uow := newTestUoW()
		expectOwner(uow, owner, profile)
		uow.Campaigns.On("GetByID", mock.Anything, int64(3)).Return(newCampaign(models.AdCampaignStatusEnded), nil)

		_, err := NewAdCampaignService(factory).ChangeStatus(context.Background(), owner.ID, 3, models.AdCampaignStatusRunning)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("other business", func(t *testing.T) {
		factory, uow := newTestUoW()
		expectOwner(uow, owner, profile)
		campaign := newCampaign(models.AdCampaignStatusDraft)
		campaign.BusinessID = profile.ID + 1
		uow.Campaigns.On("GetByID", mock.Anything, int64(3)).Return(campaign, nil)

		_, err := NewAdCampaignService(factory).ChangeStatus(context.Background(), owner.ID, 3, models.AdCampaignStatusRunning)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
