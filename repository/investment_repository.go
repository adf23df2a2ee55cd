package repository

import (
	"context"
	"fmt"

	"fundbridge/database"
	"fundbridge/models"
	"fundbridge/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const investmentColumns = `id, investor_id, pitch_id, amount, tier_name, tier_multiplier, created_at`

// InvestmentRepository implements the InvestmentRepository interface
type InvestmentRepository struct {
	q queryable
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *database.DB) *InvestmentRepository {
	return &InvestmentRepository{q: db.Pool}
}

func newInvestmentRepositoryWithTx(tx queryable) *InvestmentRepository {
	return &InvestmentRepository{q: tx}
}

func collectInvestments(rows pgx.Rows) ([]*models.Investment, error) {
	defer rows.Close()

	investments := []*models.Investment{}
	for rows.Next() {
		var investment models.Investment
		err := rows.Scan(
			&investment.ID,
			&investment.InvestorID,
			&investment.PitchID,
			&investment.Amount,
			&investment.TierName,
			&investment.TierMultiplier,
			&investment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, &investment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}
	return investments, nil
}

// Create inserts a new investment
func (r *InvestmentRepository) Create(ctx context.Context, investment *models.Investment) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("investment", "Create")()

	query := `
		INSERT INTO investment (investor_id, pitch_id, amount, tier_name, tier_multiplier)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		investment.InvestorID,
		investment.PitchID,
		investment.Amount,
		investment.TierName,
		investment.TierMultiplier,
	).Scan(&investment.ID, &investment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create investment in pitch %d: %w", investment.PitchID, err)
	}
	return nil
}

// GetByPitch returns all investments in a pitch, oldest first
func (r *InvestmentRepository) GetByPitch(ctx context.Context, pitchID int64) ([]*models.Investment, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("investment", "GetByPitch")()

	query := `SELECT ` + investmentColumns + ` FROM investment WHERE pitch_id = $1 ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments of pitch %d: %w", pitchID, err)
	}
	return collectInvestments(rows)
}

// GetByPitches returns all investments in any of the pitches
func (r *InvestmentRepository) GetByPitches(ctx context.Context, pitchIDs []int64) ([]*models.Investment, error) {
	if len(pitchIDs) == 0 {
		return []*models.Investment{}, nil
	}

	query := `SELECT ` + investmentColumns + ` FROM investment WHERE pitch_id = ANY($1) ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query, pitchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments of pitches: %w", err)
	}
	return collectInvestments(rows)
}

// GetByInvestor returns all investments of an investor, newest first
func (r *InvestmentRepository) GetByInvestor(ctx context.Context, investorID uuid.UUID) ([]*models.Investment, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("investment", "GetByInvestor")()

	query := `SELECT ` + investmentColumns + ` FROM investment WHERE investor_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, investorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get investments of investor %s: %w", investorID, err)
	}
	return collectInvestments(rows)
}

// HasInvested reports whether the investor holds any investment in the pitch
func (r *InvestmentRepository) HasInvested(ctx context.Context, investorID uuid.UUID, pitchID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM investment WHERE investor_id = $1 AND pitch_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, investorID, pitchID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check investment of %s in pitch %d: %w", investorID, pitchID, err)
	}
	return exists, nil
}
