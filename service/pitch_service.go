package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fundbridge/aggregation"
	"fundbridge/events"
	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	MaxTitleLength = 200
	MaxTiers       = 10

	// MultiplierPlaces and the multiplier bound match tier_multiplier NUMERIC(10, 4)
	MultiplierPlaces = 4
)

var maxMultiplier = decimal.NewFromInt(1_000_000)

type pitchService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewPitchService creates a new pitch service
func NewPitchService(uowFactory UnitOfWorkFactory) PitchService {
	return &pitchService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *pitchService) CreatePitch(ctx context.Context, ownerID uuid.UUID, req CreatePitchRequest) (*models.Pitch, error) {
	pitch := &models.Pitch{
		Title:        strings.TrimSpace(req.Title),
		Summary:      strings.TrimSpace(req.Summary),
		Description:  strings.TrimSpace(req.Description),
		Industry:     strings.TrimSpace(req.Industry),
		TargetAmount: req.TargetAmount,
		Status:       models.PitchStatusDraft,
		Tiers:        normalizeTiers(req.Tiers),
		EndDate:      req.EndDate,
	}
	if req.Publish {
		pitch.Status = models.PitchStatusActive
	}

	if err := s.validatePitch(pitch, true); err != nil {
		return nil, err
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
	pitch.BusinessID = business.ID

	if err := uow.PitchRepository().Create(ctx, pitch); err != nil {
		return nil, fmt.Errorf("failed to create pitch: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"pitch_id":    pitch.ID,
		"business_id": business.ID,
		"status":      pitch.Status,
	}).Info("Pitch created")

	return pitch, nil
}

func (s *pitchService) UpdatePitch(ctx context.Context, ownerID uuid.UUID, pitchID int64, req UpdatePitchRequest) (*models.Pitch, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pitch, err := s.ownedPitch(ctx, uow, ownerID, pitchID, true)
	if err != nil {
		return nil, err
	}

	if pitch.Status != models.PitchStatusDraft && pitch.Status != models.PitchStatusActive {
		return nil, fmt.Errorf("%w: a %s pitch can no longer be edited", ErrInvalidTransition, pitch.Status)
	}

	if req.Title != nil {
		pitch.Title = strings.TrimSpace(*req.Title)
	}
	if req.Summary != nil {
		pitch.Summary = strings.TrimSpace(*req.Summary)
	}
	if req.Description != nil {
		pitch.Description = strings.TrimSpace(*req.Description)
	}
	if req.Industry != nil {
		pitch.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.TargetAmount != nil {
		pitch.TargetAmount = *req.TargetAmount
	}
	if req.Tiers != nil {
		pitch.Tiers = normalizeTiers(req.Tiers)
	}
	if req.EndDate != nil {
		pitch.EndDate = *req.EndDate
	}

	// An unchanged end date may already have passed
	if err := s.validatePitch(pitch, req.EndDate != nil); err != nil {
		return nil, err
	}
	if pitch.TargetAmount < pitch.CurrentAmount {
		return nil, fmt.Errorf("%w: target cannot drop below the %d already raised", ErrInvalidInput, pitch.CurrentAmount)
	}

	if err := uow.PitchRepository().Update(ctx, pitch); err != nil {
		return nil, fmt.Errorf("failed to update pitch: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return pitch, nil
}

func (s *pitchService) ChangeStatus(ctx context.Context, ownerID uuid.UUID, pitchID int64, status models.PitchStatus) (*models.Pitch, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pitch, err := s.ownedPitch(ctx, uow, ownerID, pitchID, true)
	if err != nil {
		return nil, err
	}

	if err := transitionPitch(ctx, uow, pitch, status); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return pitch, nil
}

func (s *pitchService) GetPitch(ctx context.Context, viewerID uuid.UUID, pitchID int64) (*models.Pitch, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pitch, err := uow.PitchRepository().GetByID(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pitch: %w", err)
	}
	if pitch == nil {
		return nil, fmt.Errorf("%w: pitch %d", ErrNotFound, pitchID)
	}

	if pitch.Status == models.PitchStatusDraft {
		business, err := uow.BusinessUserRepository().GetByUserID(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get business profile: %w", err)
		}
		// Drafts of other businesses look like missing pitches
		if business == nil || business.ID != pitch.BusinessID {
			return nil, fmt.Errorf("%w: pitch %d", ErrNotFound, pitchID)
		}
	}

	return pitch, nil
}

func (s *pitchService) BrowsePitches(ctx context.Context, filter models.PitchFilter) ([]*models.Pitch, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Industry = strings.TrimSpace(filter.Industry)
	filter.Statuses = browsableStatuses(filter.Statuses)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pitches, err := uow.PitchRepository().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pitches: %w", err)
	}
	return pitches, nil
}

func (s *pitchService) GetPitchInvestors(ctx context.Context, ownerID uuid.UUID, pitchID int64) ([]*models.PitchInvestor, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := s.ownedPitch(ctx, uow, ownerID, pitchID, false); err != nil {
		return nil, err
	}

	investments, err := uow.InvestmentRepository().GetByPitch(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments: %w", err)
	}

	names, err := displayNames(ctx, uow, investments)
	if err != nil {
		return nil, err
	}

	return aggregation.PitchInvestors(investments, names), nil
}

func (s *pitchService) GetDashboard(ctx context.Context, ownerID uuid.UUID) (*models.BusinessDashboard, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	business, err := requireBusiness(ctx, uow, ownerID)
	if err != nil {
		return nil, err
	}

	pitches, err := uow.PitchRepository().ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pitches: %w", err)
	}
	if len(pitches) == 0 {
		return aggregation.BuildDashboard(business, nil), nil
	}

	pitchIDs := make([]int64, len(pitches))
	for i, pitch := range pitches {
		pitchIDs[i] = pitch.ID
	}

	investments, err := uow.InvestmentRepository().GetByPitches(ctx, pitchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments: %w", err)
	}
	distributions, err := uow.ProfitDistributionRepository().GetByPitches(ctx, pitchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributions: %w", err)
	}

	investmentsByPitch := make(map[int64][]*models.Investment)
	for _, investment := range investments {
		investmentsByPitch[investment.PitchID] = append(investmentsByPitch[investment.PitchID], investment)
	}
	distributionsByPitch := make(map[int64][]*models.ProfitDistribution)
	for _, distribution := range distributions {
		distributionsByPitch[distribution.PitchID] = append(distributionsByPitch[distribution.PitchID], distribution)
	}

	summaries := make([]*models.PitchSummary, len(pitches))
	for i, pitch := range pitches {
		summaries[i] = aggregation.SummarizePitch(pitch, investmentsByPitch[pitch.ID], distributionsByPitch[pitch.ID])
	}

	return aggregation.BuildDashboard(business, summaries), nil
}

// ownedPitch loads a pitch and checks it belongs to the owner's business
func (s *pitchService) ownedPitch(ctx context.Context, uow UnitOfWork, ownerID uuid.UUID, pitchID int64, lock bool) (*models.Pitch, error) {
	business, err := requireBusiness(ctx, uow, ownerID)
	if err != nil {
		return nil, err
	}
	return loadOwnedPitch(ctx, uow, business, pitchID, lock)
}

func (s *pitchService) validatePitch(pitch *models.Pitch, checkEndDate bool) error {
	if pitch.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len([]rune(pitch.Title)) > MaxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, MaxTitleLength)
	}
	if pitch.TargetAmount <= 0 {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalidInput)
	}
	if checkEndDate && !pitch.EndDate.After(s.now()) {
		return fmt.Errorf("%w: end date must be in the future", ErrInvalidInput)
	}
	return validateTiers(pitch.Tiers)
}

// loadOwnedPitch loads a pitch, optionally locking it, and hides pitches of
// other businesses behind ErrForbidden
func loadOwnedPitch(ctx context.Context, uow UnitOfWork, business *models.BusinessUser, pitchID int64, lock bool) (*models.Pitch, error) {
	var (
		pitch *models.Pitch
		err   error
	)
	if lock {
		pitch, err = uow.PitchRepository().GetByIDForUpdate(ctx, pitchID)
	} else {
		pitch, err = uow.PitchRepository().GetByID(ctx, pitchID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pitch: %w", err)
	}
	if pitch == nil {
		return nil, fmt.Errorf("%w: pitch %d", ErrNotFound, pitchID)
	}
	if pitch.BusinessID != business.ID {
		return nil, fmt.Errorf("%w: pitch %d belongs to another business", ErrForbidden, pitchID)
	}
	return pitch, nil
}

// transitionPitch moves the pitch forward and queues the status event
func transitionPitch(ctx context.Context, uow UnitOfWork, pitch *models.Pitch, next models.PitchStatus) error {
	if !pitch.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, pitch.Status, next)
	}

	if err := uow.PitchRepository().UpdateStatus(ctx, pitch.ID, next); err != nil {
		return fmt.Errorf("failed to update pitch status: %w", err)
	}

	uow.EventBus().Publish(events.PitchStatusChangedEvent{
		PitchID:   pitch.ID,
		OldStatus: pitch.Status,
		NewStatus: next,
	})

	pitch.Status = next
	return nil
}

func normalizeTiers(tiers []models.Tier) []models.Tier {
	normalized := make([]models.Tier, len(tiers))
	for i, tier := range tiers {
		tier.Name = strings.TrimSpace(tier.Name)
		normalized[i] = tier
	}
	return normalized
}

func validateTiers(tiers []models.Tier) error {
	if len(tiers) == 0 || len(tiers) > MaxTiers {
		return fmt.Errorf("%w: a pitch needs between 1 and %d tiers", ErrInvalidInput, MaxTiers)
	}

	seen := make(map[string]bool, len(tiers))
	for _, tier := range tiers {
		if tier.Name == "" {
			return fmt.Errorf("%w: tier name is required", ErrInvalidInput)
		}
		key := strings.ToLower(tier.Name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate tier %q", ErrInvalidInput, tier.Name)
		}
		seen[key] = true

		if !tier.Multiplier.IsPositive() {
			return fmt.Errorf("%w: tier %q multiplier must be positive", ErrInvalidInput, tier.Name)
		}
		if !tier.Multiplier.Equal(tier.Multiplier.Truncate(MultiplierPlaces)) {
			return fmt.Errorf("%w: tier %q multiplier allows at most %d decimal places", ErrInvalidInput, tier.Name, MultiplierPlaces)
		}
		if tier.Multiplier.GreaterThanOrEqual(maxMultiplier) {
			return fmt.Errorf("%w: tier %q multiplier must be below %s", ErrInvalidInput, tier.Name, maxMultiplier)
		}
		if tier.MinAmount < 0 {
			return fmt.Errorf("%w: tier %q minimum cannot be negative", ErrInvalidInput, tier.Name)
		}
		if tier.MaxAmount != 0 && tier.MaxAmount < tier.MinAmount {
			return fmt.Errorf("%w: tier %q maximum is below its minimum", ErrInvalidInput, tier.Name)
		}
	}
	return nil
}

// browsableStatuses keeps the requested statuses that are public, defaulting
// to active and funded
func browsableStatuses(requested []models.PitchStatus) []models.PitchStatus {
	var statuses []models.PitchStatus
	for _, status := range requested {
		if status == models.PitchStatusActive || status == models.PitchStatusFunded {
			statuses = append(statuses, status)
		}
	}
	if len(statuses) == 0 {
		return []models.PitchStatus{models.PitchStatusActive, models.PitchStatusFunded}
	}
	return statuses
}

// displayNames maps the investors of the investments to their display names
func displayNames(ctx context.Context, uow UnitOfWork, investments []*models.Investment) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	if len(investments) == 0 {
		return names, nil
	}

	var ids []uuid.UUID
	for _, investment := range investments {
		if _, ok := names[investment.InvestorID]; !ok {
			names[investment.InvestorID] = ""
			ids = append(ids, investment.InvestorID)
		}
	}

	users, err := uow.UserRepository().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get investors: %w", err)
	}
	for _, user := range users {
		names[user.ID] = user.DisplayName
	}
	return names, nil
}
