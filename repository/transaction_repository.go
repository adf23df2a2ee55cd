package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fundbridge/database"
	"fundbridge/models"
	"fundbridge/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, user_id, transaction_type, amount, balance_before, balance_after, metadata, related_id, created_at`

const maxTransactionLimit = 100

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

func collectTransactions(rows pgx.Rows) ([]*models.Transaction, error) {
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		var transaction models.Transaction
		var metadataJSON []byte

		err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.Type,
			&transaction.Amount,
			&transaction.BalanceBefore,
			&transaction.BalanceAfter,
			&metadataJSON,
			&transaction.RelatedID,
			&transaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &transaction.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}

		transactions = append(transactions, &transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// Record inserts a ledger entry
func (r *TransactionRepository) Record(ctx context.Context, transaction *models.Transaction) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("transaction", "Record")()

	metadata := transaction.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO "transaction"
		(user_id, transaction_type, amount, balance_before, balance_after, metadata, related_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		transaction.UserID,
		transaction.Type,
		transaction.Amount,
		transaction.BalanceBefore,
		transaction.BalanceAfter,
		metadataJSON,
		transaction.RelatedID,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction for user %s: %w", transaction.UserID, err)
	}
	return nil
}

// GetByUser returns the newest ledger entries of a user
func (r *TransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	if limit <= 0 || limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %s: %w", userID, err)
	}
	return collectTransactions(rows)
}

// GetByUserSince returns the newest ledger entries of a user created at or
// after since, at most maxTransactionLimit of them
func (r *TransactionRepository) GetByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, userID, since, maxTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %s since %s: %w", userID, since, err)
	}
	return collectTransactions(rows)
}
