package service

import (
	"context"
	"sync"
	"time"

	"fundbridge/events"
	"fundbridge/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance int64) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

// MockBusinessUserRepository is a mock implementation of BusinessUserRepository
type MockBusinessUserRepository struct {
	mock.Mock
}

func (m *MockBusinessUserRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.BusinessUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessUser), args.Error(1)
}

func (m *MockBusinessUserRepository) GetByID(ctx context.Context, id int64) (*models.BusinessUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessUser), args.Error(1)
}

func (m *MockBusinessUserRepository) Upsert(ctx context.Context, profile *models.BusinessUser) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockPitchRepository is a mock implementation of PitchRepository
type MockPitchRepository struct {
	mock.Mock
}

func (m *MockPitchRepository) Create(ctx context.Context, pitch *models.Pitch) error {
	args := m.Called(ctx, pitch)
	return args.Error(0)
}

func (m *MockPitchRepository) GetByID(ctx context.Context, id int64) (*models.Pitch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pitch), args.Error(1)
}

func (m *MockPitchRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Pitch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pitch), args.Error(1)
}

func (m *MockPitchRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Pitch, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pitch), args.Error(1)
}

func (m *MockPitchRepository) List(ctx context.Context, filter models.PitchFilter) ([]*models.Pitch, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pitch), args.Error(1)
}

func (m *MockPitchRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*models.Pitch, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Pitch), args.Error(1)
}

func (m *MockPitchRepository) Update(ctx context.Context, pitch *models.Pitch) error {
	args := m.Called(ctx, pitch)
	return args.Error(0)
}

func (m *MockPitchRepository) UpdateStatus(ctx context.Context, id int64, status models.PitchStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPitchRepository) AddToCurrentAmount(ctx context.Context, id int64, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvestmentRepository is a mock implementation of InvestmentRepository
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) Create(ctx context.Context, investment *models.Investment) error {
	args := m.Called(ctx, investment)
	return args.Error(0)
}

func (m *MockInvestmentRepository) GetByPitch(ctx context.Context, pitchID int64) ([]*models.Investment, error) {
	args := m.Called(ctx, pitchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) GetByPitches(ctx context.Context, pitchIDs []int64) ([]*models.Investment, error) {
	args := m.Called(ctx, pitchIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) GetByInvestor(ctx context.Context, investorID uuid.UUID) ([]*models.Investment, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) HasInvested(ctx context.Context, investorID uuid.UUID, pitchID int64) (bool, error) {
	args := m.Called(ctx, investorID, pitchID)
	return args.Bool(0), args.Error(1)
}

// MockProfitDistributionRepository is a mock implementation of ProfitDistributionRepository
type MockProfitDistributionRepository struct {
	mock.Mock
}

func (m *MockProfitDistributionRepository) Create(ctx context.Context, distribution *models.ProfitDistribution) error {
	args := m.Called(ctx, distribution)
	return args.Error(0)
}

func (m *MockProfitDistributionRepository) GetByPitch(ctx context.Context, pitchID int64) ([]*models.ProfitDistribution, error) {
	args := m.Called(ctx, pitchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProfitDistribution), args.Error(1)
}

func (m *MockProfitDistributionRepository) GetByPitches(ctx context.Context, pitchIDs []int64) ([]*models.ProfitDistribution, error) {
	args := m.Called(ctx, pitchIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProfitDistribution), args.Error(1)
}

// MockInvestorPayoutRepository is a mock implementation of InvestorPayoutRepository
type MockInvestorPayoutRepository struct {
	mock.Mock
}

func (m *MockInvestorPayoutRepository) CreateBatch(ctx context.Context, payouts []*models.InvestorPayout) error {
	args := m.Called(ctx, payouts)
	return args.Error(0)
}

func (m *MockInvestorPayoutRepository) GetByInvestor(ctx context.Context, investorID uuid.UUID) ([]*models.InvestorPayout, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvestorPayout), args.Error(1)
}

func (m *MockInvestorPayoutRepository) GetByDistribution(ctx context.Context, distributionID int64) ([]*models.InvestorPayout, error) {
	args := m.Called(ctx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvestorPayout), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, transaction *models.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockAdCampaignRepository is a mock implementation of AdCampaignRepository
type MockAdCampaignRepository struct {
	mock.Mock
}

func (m *MockAdCampaignRepository) Create(ctx context.Context, campaign *models.AdCampaign) error {
	args := m.Called(ctx, campaign)
	return args.Error(0)
}

func (m *MockAdCampaignRepository) GetByID(ctx context.Context, id int64) (*models.AdCampaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdCampaign), args.Error(1)
}

func (m *MockAdCampaignRepository) GetByBusiness(ctx context.Context, businessID int64) ([]*models.AdCampaign, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdCampaign), args.Error(1)
}

func (m *MockAdCampaignRepository) UpdateStatus(ctx context.Context, id int64, status models.AdCampaignStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns the published events in order
func (m *MockEventPublisher) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.Event(nil), m.events...)
}

// OfType returns the published events of one type
func (m *MockEventPublisher) OfType(eventType events.EventType) []events.Event {
	var matched []events.Event
	for _, event := range m.Events() {
		if event.Type() == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Transaction control
// goes through mock.Mock; repositories are plain fields set by the test.
type MockUnitOfWork struct {
	mock.Mock

	Users         *MockUserRepository
	Businesses    *MockBusinessUserRepository
	Pitches       *MockPitchRepository
	Investments   *MockInvestmentRepository
	Distributions *MockProfitDistributionRepository
	Payouts       *MockInvestorPayoutRepository
	Transactions  *MockTransactionRepository
	Campaigns     *MockAdCampaignRepository
	Publisher     *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with a fresh mock for every repository
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Users:         new(MockUserRepository),
		Businesses:    new(MockBusinessUserRepository),
		Pitches:       new(MockPitchRepository),
		Investments:   new(MockInvestmentRepository),
		Distributions: new(MockProfitDistributionRepository),
		Payouts:       new(MockInvestorPayoutRepository),
		Transactions:  new(MockTransactionRepository),
		Campaigns:     new(MockAdCampaignRepository),
		Publisher:     new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository                 { return m.Users }
func (m *MockUnitOfWork) BusinessUserRepository() BusinessUserRepository { return m.Businesses }
func (m *MockUnitOfWork) PitchRepository() PitchRepository               { return m.Pitches }
func (m *MockUnitOfWork) InvestmentRepository() InvestmentRepository     { return m.Investments }
func (m *MockUnitOfWork) ProfitDistributionRepository() ProfitDistributionRepository {
	return m.Distributions
}
func (m *MockUnitOfWork) InvestorPayoutRepository() InvestorPayoutRepository { return m.Payouts }
func (m *MockUnitOfWork) TransactionRepository() TransactionRepository       { return m.Transactions }
func (m *MockUnitOfWork) AdCampaignRepository() AdCampaignRepository         { return m.Campaigns }
func (m *MockUnitOfWork) EventBus() EventPublisher                           { return m.Publisher }

// AssertRepositoryExpectations asserts the expectations of every repository mock
func (m *MockUnitOfWork) AssertRepositoryExpectations(t mock.TestingT) {
	m.Users.AssertExpectations(t)
	m.Businesses.AssertExpectations(t)
	m.Pitches.AssertExpectations(t)
	m.Investments.AssertExpectations(t)
	m.Distributions.AssertExpectations(t)
	m.Payouts.AssertExpectations(t)
	m.Transactions.AssertExpectations(t)
	m.Campaigns.AssertExpectations(t)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
