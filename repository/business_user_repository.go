package repository

import (
	"context"
	"errors"
	"fmt"

	"fundbridge/database"
	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const businessUserColumns = `id, user_id, company_name, industry, description, website, location, founded_year, created_at, updated_at`

// BusinessUserRepository implements the BusinessUserRepository interface
type BusinessUserRepository struct {
	q queryable
}

// NewBusinessUserRepository creates a new business profile repository
func NewBusinessUserRepository(db *database.DB) *BusinessUserRepository {
	return &BusinessUserRepository{q: db.Pool}
}

func newBusinessUserRepositoryWithTx(tx queryable) *BusinessUserRepository {
	return &BusinessUserRepository{q: tx}
}

func scanBusinessUser(row pgx.Row) (*models.BusinessUser, error) {
	var profile models.BusinessUser
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.CompanyName,
		&profile.Industry,
		&profile.Description,
		&profile.Website,
		&profile.Location,
		&profile.FoundedYear,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUserID retrieves the business profile of a user
func (r *BusinessUserRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.BusinessUser, error) {
	query := `SELECT ` + businessUserColumns + ` FROM businessuser WHERE user_id = $1`

	profile, err := scanBusinessUser(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// GetByID retrieves a business profile by ID
func (r *BusinessUserRepository) GetByID(ctx context.Context, id int64) (*models.BusinessUser, error) {
	query := `SELECT ` + businessUserColumns + ` FROM businessuser WHERE id = $1`

	profile, err := scanBusinessUser(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile %d: %w", id, err)
	}
	return profile, nil
}

// Upsert creates or updates the business profile keyed by user ID
func (r *BusinessUserRepository) Upsert(ctx context.Context, profile *models.BusinessUser) error {
	query := `
		INSERT INTO businessuser (user_id, company_name, industry, description, website, location, founded_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			industry = EXCLUDED.industry,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			founded_year = EXCLUDED.founded_year,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		profile.UserID,
		profile.CompanyName,
		profile.Industry,
		profile.Description,
		profile.Website,
		profile.Location,
		profile.FoundedYear,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert business profile for user %s: %w", profile.UserID, err)
	}
	return nil
}
