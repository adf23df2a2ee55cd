package repository

import (
	"context"
	"fmt"

	"fundbridge/database"
	"fundbridge/models"

	"github.com/jackc/pgx/v5"
)

const distributionColumns = `id, pitch_id, total_profit, distribution_date, created_at`

// ProfitDistributionRepository implements the ProfitDistributionRepository interface
type ProfitDistributionRepository struct {
	q queryable
}

// NewProfitDistributionRepository creates a new distribution repository
func NewProfitDistributionRepository(db *database.DB) *ProfitDistributionRepository {
	return &ProfitDistributionRepository{q: db.Pool}
}

func newProfitDistributionRepositoryWithTx(tx queryable) *ProfitDistributionRepository {
	return &ProfitDistributionRepository{q: tx}
}

func collectDistributions(rows pgx.Rows) ([]*models.ProfitDistribution, error) {
	defer rows.Close()

	distributions := []*models.ProfitDistribution{}
	for rows.Next() {
		var distribution models.ProfitDistribution
		err := rows.Scan(
			&distribution.ID,
			&distribution.PitchID,
			&distribution.TotalProfit,
			&distribution.DistributionDate,
			&distribution.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}
		distributions = append(distributions, &distribution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distributions: %w", err)
	}
	return distributions, nil
}

// Create inserts a new distribution
func (r *ProfitDistributionRepository) Create(ctx context.Context, distribution *models.ProfitDistribution) error {
	query := `
		INSERT INTO profitdistribution (pitch_id, total_profit, distribution_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		distribution.PitchID,
		distribution.TotalProfit,
		distribution.DistributionDate,
	).Scan(&distribution.ID, &distribution.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create distribution for pitch %d: %w", distribution.PitchID, err)
	}
	return nil
}

// GetByPitch returns the distributions of a pitch, newest first
func (r *ProfitDistributionRepository) GetByPitch(ctx context.Context, pitchID int64) ([]*models.ProfitDistribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM profitdistribution WHERE pitch_id = $1 ORDER BY distribution_date DESC, id DESC`

	rows, err := r.q.Query(ctx, query, pitchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributions of pitch %d: %w", pitchID, err)
	}
	return collectDistributions(rows)
}

// GetByPitches returns the distributions of any of the pitches
func (r *ProfitDistributionRepository) GetByPitches(ctx context.Context, pitchIDs []int64) ([]*models.ProfitDistribution, error) {
	if len(pitchIDs) == 0 {
		return []*models.ProfitDistribution{}, nil
	}

	query := `SELECT ` + distributionColumns + ` FROM profitdistribution WHERE pitch_id = ANY($1) ORDER BY distribution_date DESC, id DESC`

	rows, err := r.q.Query(ctx, query, pitchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get distributions of pitches: %w", err)
	}
	return collectDistributions(rows)
}
