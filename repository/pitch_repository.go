package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fundbridge/database"
	"fundbridge/models"
	"fundbridge/observability"

	"github.com/jackc/pgx/v5"
)

const pitchColumns = `id, business_id, title, summary, description, industry, target_amount, current_amount, status, tiers, end_date, created_at, updated_at`

const (
	defaultPitchLimit = 20
	maxPitchLimit     = 100
)

// PitchRepository implements the PitchRepository interface
type PitchRepository struct {
	q queryable
}

// NewPitchRepository creates a new pitch repository
func NewPitchRepository(db *database.DB) *PitchRepository {
	return &PitchRepository{q: db.Pool}
}

func newPitchRepositoryWithTx(tx queryable) *PitchRepository {
	return &PitchRepository{q: tx}
}

func scanPitch(row pgx.Row) (*models.Pitch, error) {
	var pitch models.Pitch
	var tiersJSON []byte

	err := row.Scan(
		&pitch.ID,
		&pitch.BusinessID,
		&pitch.Title,
		&pitch.Summary,
		&pitch.Description,
		&pitch.Industry,
		&pitch.TargetAmount,
		&pitch.CurrentAmount,
		&pitch.Status,
		&tiersJSON,
		&pitch.EndDate,
		&pitch.CreatedAt,
		&pitch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	pitch.Tiers = []models.Tier{}
	if len(tiersJSON) > 0 {
		if err := json.Unmarshal(tiersJSON, &pitch.Tiers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tiers of pitch %d: %w", pitch.ID, err)
		}
	}
	return &pitch, nil
}

func collectPitches(rows pgx.Rows) ([]*models.Pitch, error) {
	defer rows.Close()

	pitches := []*models.Pitch{}
	for rows.Next() {
		pitch, err := scanPitch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pitch: %w", err)
		}
		pitches = append(pitches, pitch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pitches: %w", err)
	}
	return pitches, nil
}

func marshalTiers(tiers []models.Tier) ([]byte, error) {
	if tiers == nil {
		tiers = []models.Tier{}
	}
	data, err := json.Marshal(tiers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tiers: %w", err)
	}
	return data, nil
}

// Create inserts a new pitch
func (r *PitchRepository) Create(ctx context.Context, pitch *models.Pitch) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("pitch", "Create")()

	tiersJSON, err := marshalTiers(pitch.Tiers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pitch (business_id, title, summary, description, industry, target_amount, current_amount, status, tiers, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err = r.q.QueryRow(ctx, query,
		pitch.BusinessID,
		pitch.Title,
		pitch.Summary,
		pitch.Description,
		pitch.Industry,
		pitch.TargetAmount,
		pitch.CurrentAmount,
		pitch.Status,
		tiersJSON,
		pitch.EndDate,
	).Scan(&pitch.ID, &pitch.CreatedAt, &pitch.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pitch: %w", err)
	}
	return nil
}

// GetByID retrieves a pitch by ID
func (r *PitchRepository) GetByID(ctx context.Context, id int64) (*models.Pitch, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("pitch", "GetByID")()

	query := `SELECT ` + pitchColumns + ` FROM pitch WHERE id = $1`

	pitch, err := scanPitch(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pitch %d: %w", id, err)
	}
	return pitch, nil
}

// GetByIDForUpdate retrieves a pitch and locks the row for the rest of the transaction
func (r *PitchRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Pitch, error) {
	query := `SELECT ` + pitchColumns + ` FROM pitch WHERE id = $1 FOR UPDATE`

	pitch, err := scanPitch(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pitch %d: %w", id, err)
	}
	return pitch, nil
}

// GetByIDs retrieves all pitches with the given IDs
func (r *PitchRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Pitch, error) {
	if len(ids) == 0 {
		return []*models.Pitch{}, nil
	}

	query := `SELECT ` + pitchColumns + ` FROM pitch WHERE id = ANY($1)`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get pitches: %w", err)
	}
	return collectPitches(rows)
}

// List returns pitches matching the filter, newest first
func (r *PitchRepository) List(ctx context.Context, filter models.PitchFilter) ([]*models.Pitch, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("pitch", "List")()

	var (
		conditions []string
		args       []any
	)

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR summary ILIKE $%d)", len(args), len(args)))
	}
	if industry := strings.TrimSpace(filter.Industry); industry != "" {
		args = append(args, industry)
		conditions = append(conditions, fmt.Sprintf("lower(industry) = lower($%d)", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPitchLimit
	}
	if limit > maxPitchLimit {
		limit = maxPitchLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + pitchColumns + ` FROM pitch`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pitches: %w", err)
	}
	return collectPitches(rows)
}

// ListByBusiness returns all pitches of a business, newest first
func (r *PitchRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*models.Pitch, error) {
	query := `SELECT ` + pitchColumns + ` FROM pitch WHERE business_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pitches of business %d: %w", businessID, err)
	}
	return collectPitches(rows)
}

// Update saves the editable fields of a pitch
func (r *PitchRepository) Update(ctx context.Context, pitch *models.Pitch) error {
	tiersJSON, err := marshalTiers(pitch.Tiers)
	if err != nil {
		return err
	}

	query := `
		UPDATE pitch
		SET title = $1, summary = $2, description = $3, industry = $4,
		    target_amount = $5, tiers = $6, end_date = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err = r.q.QueryRow(ctx, query,
		pitch.Title,
		pitch.Summary,
		pitch.Description,
		pitch.Industry,
		pitch.TargetAmount,
		tiersJSON,
		pitch.EndDate,
		pitch.ID,
	).Scan(&pitch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("pitch %d not found", pitch.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update pitch %d: %w", pitch.ID, err)
	}
	return nil
}

// UpdateStatus sets the status of a pitch
func (r *PitchRepository) UpdateStatus(ctx context.Context, id int64, status models.PitchStatus) error {
	query := `UPDATE pitch SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of pitch %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("pitch %d not found", id)
	}
	return nil
}

// AddToCurrentAmount adds amount to the raised total and returns the new total
func (r *PitchRepository) AddToCurrentAmount(ctx context.Context, id int64, amount int64) (int64, error) {
	query := `
		UPDATE pitch
		SET current_amount = current_amount + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING current_amount
	`

	var current int64
	err := r.q.QueryRow(ctx, query, amount, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("pitch %d not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add to current amount of pitch %d: %w", id, err)
	}
	return current, nil
}

// escapeLike escapes the LIKE wildcards of a search term
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
