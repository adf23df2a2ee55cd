package repository

import (
	"context"
	"errors"
	"fmt"

	"fundbridge/database"
	"fundbridge/models"

	"github.com/jackc/pgx/v5"
)

const adCampaignColumns = `id, business_id, pitch_id, name, budget, status, start_date, end_date, created_at, updated_at`

// AdCampaignRepository implements the AdCampaignRepository interface
type AdCampaignRepository struct {
	q queryable
}

// NewAdCampaignRepository creates a new ad campaign repository
func NewAdCampaignRepository(db *database.DB) *AdCampaignRepository {
	return &AdCampaignRepository{q: db.Pool}
}

func newAdCampaignRepositoryWithTx(tx queryable) *AdCampaignRepository {
	return &AdCampaignRepository{q: tx}
}

func scanAdCampaign(row pgx.Row) (*models.AdCampaign, error) {
	var campaign models.AdCampaign
	err := row.Scan(
		&campaign.ID,
		&campaign.BusinessID,
		&campaign.PitchID,
		&campaign.Name,
		&campaign.Budget,
		&campaign.Status,
		&campaign.StartDate,
		&campaign.EndDate,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// Create inserts a new campaign
func (r *AdCampaignRepository) Create(ctx context.Context, campaign *models.AdCampaign) error {
	query := `
		INSERT INTO ad_campaign (business_id, pitch_id, name, budget, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		campaign.BusinessID,
		campaign.PitchID,
		campaign.Name,
		campaign.Budget,
		campaign.Status,
		campaign.StartDate,
		campaign.EndDate,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign %q: %w", campaign.Name, err)
	}
	return nil
}

// GetByID retrieves a campaign by ID
func (r *AdCampaignRepository) GetByID(ctx context.Context, id int64) (*models.AdCampaign, error) {
	query := `SELECT ` + adCampaignColumns + ` FROM ad_campaign WHERE id = $1`

	campaign, err := scanAdCampaign(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign %d: %w", id, err)
	}
	return campaign, nil
}

// GetByBusiness returns all campaigns of a business, newest first
func (r *AdCampaignRepository) GetByBusiness(ctx context.Context, businessID int64) ([]*models.AdCampaign, error) {
	query := `SELECT ` + adCampaignColumns + ` FROM ad_campaign WHERE business_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaigns of business %d: %w", businessID, err)
	}
	defer rows.Close()

	campaigns := []*models.AdCampaign{}
	for rows.Next() {
		campaign, err := scanAdCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}
	return campaigns, nil
}

// UpdateStatus sets the status of a campaign
func (r *AdCampaignRepository) UpdateStatus(ctx context.Context, id int64, status models.AdCampaignStatus) error {
	query := `UPDATE ad_campaign SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of campaign %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("campaign %d not found", id)
	}
	return nil
}
