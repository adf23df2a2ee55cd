package service

import (
	"context"
	"fmt"
	"strings"

	"fundbridge/models"

	"github.com/google/uuid"
)

type adCampaignService struct {
	uowFactory UnitOfWorkFactory
}

// NewAdCampaignService creates a new ad campaign service
func NewAdCampaignService(uowFactory UnitOfWorkFactory) AdCampaignService {
	return &adCampaignService{
		uowFactory: uowFactory,
	}
}

func (s *adCampaignService) CreateCampaign(ctx context.Context, ownerID uuid.UUID, req CreateCampaignRequest) (*models.AdCampaign, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: campaign name is required", ErrInvalidInput)
	}
	if req.Budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive", ErrInvalidInput)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	business, err := requireBusiness(ctx, uow, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := loadOwnedPitch(ctx, uow, business, req.PitchID, false); err != nil {
		return nil, err
	}

	campaign := &models.AdCampaign{
		BusinessID: business.ID,
		PitchID:    req.PitchID,
		Name:       req.Name,
		Budget:     req.Budget,
		Status:     models.AdCampaignStatusDraft,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if err := uow.AdCampaignRepository().Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return campaign, nil
}

func (s *adCampaignService) GetCampaigns(ctx context.Context, ownerID uuid.UUID) ([]*models.AdCampaign, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	business, err := requireBusiness(ctx, uow, ownerID)
	if err != nil {
		return nil, err
	}

	campaigns, err := uow.AdCampaignRepository().GetByBusiness(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *adCampaignService) ChangeStatus(ctx context.Context, ownerID uuid.UUID, campaignID int64, status models.AdCampaignStatus) (*models.AdCampaign, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	business, err := requireBusiness(ctx, uow, ownerID)
	if err != nil {
		return nil, err
	}

	campaign, err := uow.AdCampaignRepository().GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	if campaign == nil {
		return nil, fmt.Errorf("%w: campaign %d", ErrNotFound, campaignID)
	}
	if campaign.BusinessID != business.ID {
		return nil, fmt.Errorf("%w: campaign %d belongs to another business", ErrForbidden, campaignID)
	}
	if !campaign.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, campaign.Status, status)
	}

	if err := uow.AdCampaignRepository().UpdateStatus(ctx, campaignID, status); err != nil {
		return nil, fmt.Errorf("failed to update campaign status: %w", err)
	}
	campaign.Status = status

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return campaign, nil
}
