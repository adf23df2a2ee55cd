package repository

import (
	"context"
	"fmt"

	"fundbridge/database"
	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const payoutColumns = `id, distribution_id, pitch_id, investor_id, shares, amount, created_at`

// InvestorPayoutRepository implements the InvestorPayoutRepository interface
type InvestorPayoutRepository struct {
	q queryable
}

// NewInvestorPayoutRepository creates a new payout repository
func NewInvestorPayoutRepository(db *database.DB) *InvestorPayoutRepository {
	return &InvestorPayoutRepository{q: db.Pool}
}

func newInvestorPayoutRepositoryWithTx(tx queryable) *InvestorPayoutRepository {
	return &InvestorPayoutRepository{q: tx}
}

func collectPayouts(rows pgx.Rows) ([]*models.InvestorPayout, error) {
	defer rows.Close()

	payouts := []*models.InvestorPayout{}
	for rows.Next() {
		var payout models.InvestorPayout
		err := rows.Scan(
			&payout.ID,
			&payout.DistributionID,
			&payout.PitchID,
			&payout.InvestorID,
			&payout.Shares,
			&payout.Amount,
			&payout.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout: %w", err)
		}
		payouts = append(payouts, &payout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payouts: %w", err)
	}
	return payouts, nil
}

// CreateBatch inserts the payouts of one distribution
func (r *InvestorPayoutRepository) CreateBatch(ctx context.Context, payouts []*models.InvestorPayout) error {
	if len(payouts) == 0 {
		return nil
	}

	query := `
		INSERT INTO investorpayout (distribution_id, pitch_id, investor_id, shares, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	batch := &pgx.Batch{}
	for _, payout := range payouts {
		batch.Queue(query,
			payout.DistributionID,
			payout.PitchID,
			payout.InvestorID,
			payout.Shares,
			payout.Amount,
		)
	}

	results := r.q.SendBatch(ctx, batch)
	defer results.Close()

	for _, payout := range payouts {
		if err := results.QueryRow().Scan(&payout.ID, &payout.CreatedAt); err != nil {
			return fmt.Errorf("failed to create payout for investor %s: %w", payout.InvestorID, err)
		}
	}
	return nil
}

// GetByInvestor returns all payouts of an investor, newest first
func (r *InvestorPayoutRepository) GetByInvestor(ctx context.Context, investorID uuid.UUID) ([]*models.InvestorPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM investorpayout WHERE investor_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payouts of investor %s: %w", investorID, err)
	}
	return collectPayouts(rows)
}

// GetByDistribution returns the payouts of a distribution, largest first
func (r *InvestorPayoutRepository) GetByDistribution(ctx context.Context, distributionID int64) ([]*models.InvestorPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM investorpayout WHERE distribution_id = $1 ORDER BY amount DESC, id`

	rows, err := r.q.Query(ctx, query, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payouts of distribution %d: %w", distributionID, err)
	}
	return collectPayouts(rows)
}
