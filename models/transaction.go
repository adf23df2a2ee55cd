package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of balance change
type TransactionType string

const (
	TransactionTypeDeposit      TransactionType = "deposit"
	TransactionTypeWithdraw     TransactionType = "withdraw"
	TransactionTypeInvestment   TransactionType = "investment"
	TransactionTypePayout       TransactionType = "payout"
	TransactionTypeDistribution TransactionType = "distribution"
)

// IsCredit returns true if the transaction type adds to a balance
func (tt TransactionType) IsCredit() bool {
	return tt == TransactionTypeDeposit || tt == TransactionTypePayout
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}

// Transaction is a ledger entry recording one balance change
type Transaction struct {
	ID            int64           `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Type          TransactionType `db:"transaction_type" json:"type"`
	Amount        int64           `db:"amount" json:"amount"` // Signed change
	BalanceBefore int64           `db:"balance_before" json:"balance_before"`
	BalanceAfter  int64           `db:"balance_after" json:"balance_after"`
	Metadata      map[string]any  `db:"metadata" json:"metadata,omitempty"`
	RelatedID     *int64          `db:"related_id" json:"related_id,omitempty"`
	Description   string          `db:"-" json:"description,omitempty"` // Set when listed to a user
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Validate performs basic consistency checks on the entry
func (t *Transaction) Validate() error {
	if t.Amount == 0 {
		return errors.New("change amount cannot be zero")
	}
	if t.BalanceAfter != t.BalanceBefore+t.Amount {
		return errors.New("balance calculation is inconsistent")
	}
	if t.BalanceAfter < 0 {
		return errors.New("balance cannot become negative")
	}
	return nil
}

// GetDescription returns a human-readable description of the entry
func (t *Transaction) GetDescription() string {
	switch t.Type {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdraw:
		return "Withdrawal"
	case TransactionTypeInvestment:
		return "Investment"
	case TransactionTypePayout:
		return "Profit payout"
	case TransactionTypeDistribution:
		return "Profit distribution"
	default:
		return string(t.Type)
	}
}
