package service

import (
	"context"
	"fmt"
	"time"

	"fundbridge/models"

	"github.com/google/uuid"
)

const (
	// MaxWalletAmount bounds a single deposit or withdrawal
	MaxWalletAmount = int64(10_000_000_000)

	DefaultTransactionLimit = 20
	MaxTransactionLimit     = 100
)

type walletService struct {
	uowFactory UnitOfWorkFactory
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory) WalletService {
	return &walletService{
		uowFactory: uowFactory,
	}
}

func (s *walletService) Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeDeposit, amount)
}

func (s *walletService) Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeWithdraw, amount)
}

func (s *walletService) move(ctx context.Context, userID uuid.UUID, transactionType models.TransactionType, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if amount > MaxWalletAmount {
		return nil, fmt.Errorf("%w: amount exceeds the limit of %d", ErrInvalidInput, MaxWalletAmount)
	}

	signed := amount
	if !transactionType.IsCredit() {
		signed = -amount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transaction, err := ApplyBalanceChange(ctx, uow, userID, transactionType, signed, nil, nil)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	transaction.Description = transaction.GetDescription()
	return transaction, nil
}

func (s *walletService) GetTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transactions, err := uow.TransactionRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return describe(transactions), nil
}

func (s *walletService) GetTransactionsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Transaction, error) {
	if since.IsZero() {
		return nil, fmt.Errorf("%w: since is required", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transactions, err := uow.TransactionRepository().GetByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions since %s: %w", since.Format(time.RFC3339), err)
	}
	return describe(transactions), nil
}

func describe(transactions []*models.Transaction) []*models.Transaction {
	for _, transaction := range transactions {
		transaction.Description = transaction.GetDescription()
	}
	return transactions
}
