package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fundbridge/events"
	"fundbridge/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type investmentService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewInvestmentService creates a new investment service
func NewInvestmentService(uowFactory UnitOfWorkFactory) InvestmentService {
	return &investmentService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *investmentService) Invest(ctx context.Context, investorID uuid.UUID, pitchID int64, amount int64, tierName string) (*models.InvestmentResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: investment amount must be positive", ErrInvalidInput)
	}
	tierName = strings.TrimSpace(tierName)
	if tierName == "" {
		return nil, fmt.Errorf("%w: tier is required", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := requireRole(ctx, uow, investorID, models.RoleInvestor); err != nil {
		return nil, err
	}

	// Lock the pitch so concurrent investments see each other's totals
	pitch, err := uow.PitchRepository().GetByIDForUpdate(ctx, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pitch: %w", err)
	}
	if pitch == nil || pitch.Status == models.PitchStatusDraft {
		return nil, fmt.Errorf("%w: pitch %d", ErrNotFound, pitchID)
	}
	if !pitch.IsOpenForInvestment(s.now()) {
		return nil, fmt.Errorf("%w: pitch %d is not accepting investments", ErrInvalidTransition, pitchID)
	}

	tier, ok := pitch.FindTier(tierName)
	if !ok {
		return nil, fmt.Errorf("%w: pitch has no tier %q", ErrInvalidInput, tierName)
	}
	if !tier.Accepts(amount) {
		return nil, fmt.Errorf("%w: tier %q does not accept %d", ErrInvalidInput, tierName, amount)
	}

	investment := &models.Investment{
		InvestorID:     investorID,
		PitchID:        pitch.ID,
		Amount:         amount,
		TierName:       tier.Name,
		TierMultiplier: tier.Multiplier,
	}
	if err := uow.InvestmentRepository().Create(ctx, investment); err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	transaction, err := ApplyBalanceChange(ctx, uow, investorID, models.TransactionTypeInvestment, -amount, &investment.ID, map[string]any{
		"pitch_id":    pitch.ID,
		"pitch_title": pitch.Title,
		"tier":        tier.Name,
	})
	if err != nil {
		return nil, err
	}

	current, err := uow.PitchRepository().AddToCurrentAmount(ctx, pitch.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to update pitch total: %w", err)
	}
	pitch.CurrentAmount = current

	if pitch.IsFullyFunded() {
		if err := transitionPitch(ctx, uow, pitch, models.PitchStatusFunded); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.InvestmentCreatedEvent{
		InvestmentID: investment.ID,
		InvestorID:   investorID,
		PitchID:      pitch.ID,
		Amount:       amount,
		TierName:     tier.Name,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"investment_id": investment.ID,
		"investor_id":   investorID,
		"pitch_id":      pitch.ID,
		"amount":        amount,
		"tier":          tier.Name,
		"pitch_status":  pitch.Status,
	}).Info("Investment placed")

	return &models.InvestmentResult{
		Investment: investment,
		Pitch:      pitch,
		NewBalance: transaction.BalanceAfter,
	}, nil
}

func (s *investmentService) GetInvestments(ctx context.Context, investorID uuid.UUID) ([]*models.Investment, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	investments, err := uow.InvestmentRepository().GetByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments: %w", err)
	}
	return investments, nil
}
