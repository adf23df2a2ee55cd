package service

import (
	"context"
	"fmt"

	"fundbridge/aggregation"
	"fundbridge/models"

	"github.com/google/uuid"
)

type portfolioService struct {
	uowFactory UnitOfWorkFactory
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(uowFactory UnitOfWorkFactory) PortfolioService {
	return &portfolioService{
		uowFactory: uowFactory,
	}
}

func (s *portfolioService) GetPortfolio(ctx context.Context, investorID uuid.UUID) (*models.Portfolio, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := requireRole(ctx, uow, investorID, models.RoleInvestor); err != nil {
		return nil, err
	}

	investments, err := uow.InvestmentRepository().GetByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments: %w", err)
	}
	payouts, err := uow.InvestorPayoutRepository().GetByInvestor(ctx, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payouts: %w", err)
	}

	seen := make(map[int64]bool)
	var pitchIDs []int64
	for _, investment := range investments {
		if !seen[investment.PitchID] {
			seen[investment.PitchID] = true
			pitchIDs = append(pitchIDs, investment.PitchID)
		}
	}

	pitches := make(map[int64]*models.Pitch, len(pitchIDs))
	if len(pitchIDs) > 0 {
		fetched, err := uow.PitchRepository().GetByIDs(ctx, pitchIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get pitches: %w", err)
		}
		for _, pitch := range fetched {
			pitches[pitch.ID] = pitch
		}

		// Every investment in those pitches, for the share of pitch
		investments, err = uow.InvestmentRepository().GetByPitches(ctx, pitchIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get pitch investments: %w", err)
		}
	}

	return aggregation.BuildPortfolio(investorID, investments, payouts, pitches), nil
}
