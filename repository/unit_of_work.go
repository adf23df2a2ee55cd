package repository

import (
	"context"
	"errors"
	"fmt"

	"fundbridge/database"
	"fundbridge/events"
	"fundbridge/service"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	businessUserRepo service.BusinessUserRepository
	pitchRepo        service.PitchRepository
	investmentRepo   service.InvestmentRepository
	distributionRepo service.ProfitDistributionRepository
	payoutRepo       service.InvestorPayoutRepository
	transactionRepo  service.TransactionRepository
	adCampaignRepo   service.AdCampaignRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.businessUserRepo = newBusinessUserRepositoryWithTx(tx)
	u.pitchRepo = newPitchRepositoryWithTx(tx)
	u.investmentRepo = newInvestmentRepositoryWithTx(tx)
	u.distributionRepo = newProfitDistributionRepositoryWithTx(tx)
	u.payoutRepo = newInvestorPayoutRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.adCampaignRepo = newAdCampaignRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if err := u.transactionalBus.Flush(u.ctx); err != nil {
		log.WithError(err).Error("Failed to flush events after commit")
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

func notStarted() {
	panic("unit of work not started - call Begin() first")
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		notStarted()
	}
	return u.userRepo
}

// BusinessUserRepository returns the business profile repository for this unit of work
func (u *unitOfWork) BusinessUserRepository() service.BusinessUserRepository {
	if u.businessUserRepo == nil {
		notStarted()
	}
	return u.businessUserRepo
}

// PitchRepository returns the pitch repository for this unit of work
func (u *unitOfWork) PitchRepository() service.PitchRepository {
	if u.pitchRepo == nil {
		notStarted()
	}
	return u.pitchRepo
}

// InvestmentRepository returns the investment repository for this unit of work
func (u *unitOfWork) InvestmentRepository() service.InvestmentRepository {
	if u.investmentRepo == nil {
		notStarted()
	}
	return u.investmentRepo
}

// ProfitDistributionRepository returns the distribution repository for this unit of work
func (u *unitOfWork) ProfitDistributionRepository() service.ProfitDistributionRepository {
	if u.distributionRepo == nil {
		notStarted()
	}
	return u.distributionRepo
}

// InvestorPayoutRepository returns the payout repository for this unit of work
func (u *unitOfWork) InvestorPayoutRepository() service.InvestorPayoutRepository {
	if u.payoutRepo == nil {
		notStarted()
	}
	return u.payoutRepo
}

// TransactionRepository returns the ledger repository for this unit of work
func (u *unitOfWork) TransactionRepository() service.TransactionRepository {
	if u.transactionRepo == nil {
		notStarted()
	}
	return u.transactionRepo
}

// AdCampaignRepository returns the ad campaign repository for this unit of work
func (u *unitOfWork) AdCampaignRepository() service.AdCampaignRepository {
	if u.adCampaignRepo == nil {
		notStarted()
	}
	return u.adCampaignRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		notStarted()
	}
	return u.transactionalBus
}
