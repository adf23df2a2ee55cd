package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"fundbridge/aggregation"
	"fundbridge/events"
	"fundbridge/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// distributionAccess is what a viewer may see of a pitch's distributions
type distributionAccess int

const (
	accessNone distributionAccess = iota
	accessInvestor
	accessOwner
)

type distributionService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewDistributionService creates a new profit distribution service
func NewDistributionService(uowFactory UnitOfWorkFactory) DistributionService {
	return &distributionService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *distributionService) Declare(ctx context.Context, ownerID uuid.UUID, pitchID int64, totalProfit int64, date time.Time) (*models.DistributionResult, error) {
	if totalProfit <= 0 {
		return nil, fmt.Errorf("%w: total profit must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		date = s.now()
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

	pitch, err := loadOwnedPitch(ctx, uow, business, pitchID, true)
	if err != nil {
		return nil, err
	}
	if !pitch.AcceptsDistributions() {
		return nil, fmt.Errorf("%w: profits can only be distributed on funded or closed pitches", ErrInvalidTransition)
	}

	investments, err := uow.InvestmentRepository().GetByPitch(ctx, pitch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments: %w", err)
	}

	allocations := aggregation.AllocatePayouts(totalProfit, investments)
	if len(allocations) == 0 {
		return nil, fmt.Errorf("%w: pitch %d has no investors to pay", ErrInvalidInput, pitch.ID)
	}

	distribution := &models.ProfitDistribution{
		PitchID:          pitch.ID,
		TotalProfit:      totalProfit,
		DistributionDate: date,
	}
	if err := uow.ProfitDistributionRepository().Create(ctx, distribution); err != nil {
		return nil, fmt.Errorf("failed to create distribution: %w", err)
	}

	// Debit the business first so an underfunded declaration fails before any credit
	if _, err := ApplyBalanceChange(ctx, uow, ownerID, models.TransactionTypeDistribution, -totalProfit, &distribution.ID, map[string]any{
		"pitch_id":    pitch.ID,
		"pitch_title": pitch.Title,
		"investors":   len(allocations),
	}); err != nil {
		return nil, err
	}

	payouts := make([]*models.InvestorPayout, 0, len(allocations))
	for _, allocation := range allocations {
		if allocation.Amount == 0 {
			continue
		}
		payouts = append(payouts, &models.InvestorPayout{
			DistributionID: distribution.ID,
			PitchID:        pitch.ID,
			InvestorID:     allocation.InvestorID,
			Shares:         allocation.Shares,
			Amount:         allocation.Amount,
		})
	}
	if err := uow.InvestorPayoutRepository().CreateBatch(ctx, payouts); err != nil {
		return nil, fmt.Errorf("failed to create payouts: %w", err)
	}

	// Credit in investor id order so concurrent distributions lock rows consistently
	credits := make([]*models.InvestorPayout, len(payouts))
	copy(credits, payouts)
	sort.Slice(credits, func(i, j int) bool {
		return bytes.Compare(credits[i].InvestorID[:], credits[j].InvestorID[:]) < 0
	})
	for _, payout := range credits {
		if _, err := ApplyBalanceChange(ctx, uow, payout.InvestorID, models.TransactionTypePayout, payout.Amount, &distribution.ID, map[string]any{
			"pitch_id":    pitch.ID,
			"pitch_title": pitch.Title,
			"shares":      payout.Shares.String(),
		}); err != nil {
			return nil, fmt.Errorf("failed to credit investor %s: %w", payout.InvestorID, err)
		}
	}

	uow.EventBus().Publish(events.ProfitDistributedEvent{
		DistributionID: distribution.ID,
		PitchID:        pitch.ID,
		TotalProfit:    totalProfit,
		PayoutCount:    len(payouts),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"distribution_id": distribution.ID,
		"pitch_id":        pitch.ID,
		"total_profit":    totalProfit,
		"payouts":         len(payouts),
	}).Info("Profit distributed")

	return &models.DistributionResult{
		Distribution: distribution,
		Payouts:      payouts,
		TotalShares:  aggregation.TotalShares(investments),
	}, nil
}

func (s *distributionService) GetDistributions(ctx context.Context, viewerID uuid.UUID, pitchID int64) ([]*models.ProfitDistribution, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := s.viewablePitch(ctx, uow, viewerID, pitchID); err != nil {
		return nil, err
	}

	distributions, err := uow.ProfitDistributionRepository().GetByPitch(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributions: %w", err)
	}
	return distributions, nil
}

func (s *distributionService) GetDistributionPayouts(ctx context.Context, viewerID uuid.UUID, pitchID, distributionID int64) ([]*models.InvestorPayout, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	access, err := s.viewablePitch(ctx, uow, viewerID, pitchID)
	if err != nil {
		return nil, err
	}

	distributions, err := uow.ProfitDistributionRepository().GetByPitch(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributions: %w", err)
	}
	found := false
	for _, distribution := range distributions {
		if distribution.ID == distributionID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: distribution %d of pitch %d", ErrNotFound, distributionID, pitchID)
	}

	payouts, err := uow.InvestorPayoutRepository().GetByDistribution(ctx, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distribution payouts: %w", err)
	}
	if access == accessOwner {
		return payouts, nil
	}

	own := make([]*models.InvestorPayout, 0, 1)
	for _, payout := range payouts {
		if payout.InvestorID == viewerID {
			own = append(own, payout)
		}
	}
	return own, nil
}

func (s *distributionService) GetPayouts(ctx context.Context, investorID uuid.UUID) ([]*models.InvestorPayout, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	payouts, err := uow.InvestorPayoutRepository().GetByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payouts: %w", err)
	}
	return payouts, nil
}

// viewablePitch loads the pitch and rejects viewers who neither own it nor
// invested in it
func (s *distributionService) viewablePitch(ctx context.Context, uow UnitOfWork, viewerID uuid.UUID, pitchID int64) (distributionAccess, error) {
	pitch, err := uow.PitchRepository().GetByID(ctx, pitchID)
	if err != nil {
		return accessNone, fmt.Errorf("failed to get pitch: %w", err)
	}
	if pitch == nil {
		return accessNone, fmt.Errorf("%w: pitch %d", ErrNotFound, pitchID)
	}

	access, err := s.distributionAccess(ctx, uow, viewerID, pitch)
	if err != nil {
		return accessNone, err
	}
	if access == accessNone {
		return accessNone, fmt.Errorf("%w: only the owner and investors can view distributions", ErrForbidden)
	}
	return access, nil
}

func (s *distributionService) distributionAccess(ctx context.Context, uow UnitOfWork, viewerID uuid.UUID, pitch *models.Pitch) (distributionAccess, error) {
	business, err := uow.BusinessUserRepository().GetByUserID(ctx, viewerID)
	if err != nil {
		return accessNone, fmt.Errorf("failed to get business profile: %w", err)
	}
	if business != nil {
		if business.ID == pitch.BusinessID {
			return accessOwner, nil
		}
		return accessNone, nil
	}

	invested, err := uow.InvestmentRepository().HasInvested(ctx, viewerID, pitch.ID)
	if err != nil {
		return accessNone, fmt.Errorf("failed to check investment: %w", err)
	}
	if invested {
		return accessInvestor, nil
	}
	return accessNone, nil
}
