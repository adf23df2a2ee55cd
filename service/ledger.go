package service

import (
	"context"
	"fmt"

	"fundbridge/events"
	"fundbridge/models"

	"github.com/google/uuid"
)

// RecordBalanceChange records a ledger entry and queues the matching event.
// Every balance change in the system goes through here.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, transaction *models.Transaction) error {
	if err := transaction.Validate(); err != nil {
		return fmt.Errorf("invalid ledger entry: %w", err)
	}

	if err := uow.TransactionRepository().Record(ctx, transaction); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangedEvent{
		UserID:          transaction.UserID,
		OldBalance:      transaction.BalanceBefore,
		NewBalance:      transaction.BalanceAfter,
		TransactionType: transaction.Type,
		ChangeAmount:    transaction.Amount,
		TransactionID:   transaction.ID,
	})

	return nil
}

// ApplyBalanceChange locks the user row, moves the balance by the signed
// amount and records the ledger entry. Debits that would overdraw fail with
// ErrInsufficientBalance.
func ApplyBalanceChange(
	ctx context.Context,
	uow UnitOfWork,
	userID uuid.UUID,
	transactionType models.TransactionType,
	amount int64,
	relatedID *int64,
	metadata map[string]any,
) (*models.Transaction, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: balance change cannot be zero", ErrInvalidInput)
	}

	user, err := uow.UserRepository().GetByIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if amount < 0 {
		if err := user.ValidateDebit(-amount); err != nil {
			return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, user.Balance, -amount)
		}
	}

	newBalance := user.Balance + amount
	if err := uow.UserRepository().UpdateBalance(ctx, userID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	transaction := &models.Transaction{
		UserID:        userID,
		Type:          transactionType,
		Amount:        amount,
		BalanceBefore: user.Balance,
		BalanceAfter:  newBalance,
		Metadata:      metadata,
		RelatedID:     relatedID,
	}
	if err := RecordBalanceChange(ctx, uow, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}
