package service

import (
	"context"
	"time"

	"fundbridge/events"
	"fundbridge/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user; the caller assigns the ID
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByIDForUpdate retrieves a user and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email, case-insensitively
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIDs retrieves all users with the given IDs
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)

	// UpdateBalance sets a user's balance
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance int64) error
}

// BusinessUserRepository defines the interface for business profile data access
type BusinessUserRepository interface {
	// GetByUserID retrieves the business profile of a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.BusinessUser, error)

	// GetByID retrieves a business profile by ID
	GetByID(ctx context.Context, id int64) (*models.BusinessUser, error)

	// Upsert creates or updates the business profile of profile.UserID
	Upsert(ctx context.Context, profile *models.BusinessUser) error
}

// PitchRepository defines the interface for pitch data access
type PitchRepository interface {
	// Create inserts a new pitch
	Create(ctx context.Context, pitch *models.Pitch) error

	// GetByID retrieves a pitch by ID
	GetByID(ctx context.Context, id int64) (*models.Pitch, error)

	// GetByIDForUpdate retrieves a pitch and locks the row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Pitch, error)

	// GetByIDs retrieves all pitches with the given IDs
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Pitch, error)

	// List returns pitches matching the filter, newest first
	List(ctx context.Context, filter models.PitchFilter) ([]*models.Pitch, error)

	// ListByBusiness returns all pitches of a business, newest first
	ListByBusiness(ctx context.Context, businessID int64) ([]*models.Pitch, error)

	// Update saves the editable fields of a pitch
	Update(ctx context.Context, pitch *models.Pitch) error

	// UpdateStatus sets the status of a pitch
	UpdateStatus(ctx context.Context, id int64, status models.PitchStatus) error

	// AddToCurrentAmount adds amount to the raised total and returns the new total
	AddToCurrentAmount(ctx context.Context, id int64, amount int64) (int64, error)
}

// InvestmentRepository defines the interface for investment data access
type InvestmentRepository interface {
	// Create inserts a new investment
	Create(ctx context.Context, investment *models.Investment) error

	// GetByPitch returns all investments in a pitch
	GetByPitch(ctx context.Context, pitchID int64) ([]*models.Investment, error)

	// GetByPitches returns all investments in any of the pitches
	GetByPitches(ctx context.Context, pitchIDs []int64) ([]*models.Investment, error)

	// GetByInvestor returns all investments of an investor, newest first
	GetByInvestor(ctx context.Context, investorID uuid.UUID) ([]*models.Investment, error)

	// HasInvested reports whether the investor holds any investment in the pitch
	HasInvested(ctx context.Context, investorID uuid.UUID, pitchID int64) (bool, error)
}

// ProfitDistributionRepository defines the interface for distribution data access
type ProfitDistributionRepository interface {
	// Create inserts a new distribution
	Create(ctx context.Context, distribution *models.ProfitDistribution) error

	// GetByPitch returns the distributions of a pitch, newest first
	GetByPitch(ctx context.Context, pitchID int64) ([]*models.ProfitDistribution, error)

	// GetByPitches returns the distributions of any of the pitches
	GetByPitches(ctx context.Context, pitchIDs []int64) ([]*models.ProfitDistribution, error)
}

// InvestorPayoutRepository defines the interface for payout data access
type InvestorPayoutRepository interface {
	// CreateBatch inserts the payouts of one distribution
	CreateBatch(ctx context.Context, payouts []*models.InvestorPayout) error

	// GetByInvestor returns all payouts of an investor, newest first
	GetByInvestor(ctx context.Context, investorID uuid.UUID) ([]*models.InvestorPayout, error)

	// GetByDistribution returns the payouts of a distribution
	GetByDistribution(ctx context.Context, distributionID int64) ([]*models.InvestorPayout, error)
}

// TransactionRepository defines the interface for ledger entries
type TransactionRepository interface {
	// Record inserts a ledger entry
	Record(ctx context.Context, transaction *models.Transaction) error

	// GetByUser returns the newest ledger entries of a user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)

	// GetByUserSince returns the ledger entries of a user created at or after since
	GetByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Transaction, error)
}

// AdCampaignRepository defines the interface for ad campaign data access
type AdCampaignRepository interface {
	// Create inserts a new campaign
	Create(ctx context.Context, campaign *models.AdCampaign) error

	// GetByID retrieves a campaign by ID
	GetByID(ctx context.Context, id int64) (*models.AdCampaign, error)

	// GetByBusiness returns all campaigns of a business, newest first
	GetByBusiness(ctx context.Context, businessID int64) ([]*models.AdCampaign, error)

	// UpdateStatus sets the status of a campaign
	UpdateStatus(ctx context.Context, id int64, status models.AdCampaignStatus) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction and drops queued events
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	BusinessUserRepository() BusinessUserRepository
	PitchRepository() PitchRepository
	InvestmentRepository() InvestmentRepository
	ProfitDistributionRepository() ProfitDistributionRepository
	InvestorPayoutRepository() InvestorPayoutRepository
	TransactionRepository() TransactionRepository
	AdCampaignRepository() AdCampaignRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// SignUpRequest carries the fields of a new account
type SignUpRequest struct {
	Email       string
	Password    string
	DisplayName string
	Role        models.Role
	CompanyName string // Business accounts only
}

// AuthService defines the interface for the identity layer
type AuthService interface {
	// SignUp creates an account and returns a session for it
	SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error)

	// SignIn checks the credentials and returns a new session
	SignIn(ctx context.Context, email, password string) (*models.Session, error)

	// ParseToken verifies a session token and returns its claims
	ParseToken(token string) (*Claims, error)
}

// UserService defines the interface for account operations
type UserService interface {
	// GetProfile returns the current user's role, profile and balance
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)

	// GetBusinessProfile returns the business profile of a business user
	GetBusinessProfile(ctx context.Context, userID uuid.UUID) (*models.BusinessUser, error)

	// UpsertBusinessProfile creates or updates the business profile of a business user
	UpsertBusinessProfile(ctx context.Context, userID uuid.UUID, profile *models.BusinessUser) (*models.BusinessUser, error)
}

// CreatePitchRequest carries the fields of a new pitch
type CreatePitchRequest struct {
	Title        string
	Summary      string
	Description  string
	Industry     string
	TargetAmount int64
	Tiers        []models.Tier
	EndDate      time.Time
	Publish      bool
}

// UpdatePitchRequest carries the editable fields of a pitch; nil fields are kept
type UpdatePitchRequest struct {
	Title        *string
	Summary      *string
	Description  *string
	Industry     *string
	TargetAmount *int64
	Tiers        []models.Tier
	EndDate      *time.Time
}

// PitchService defines the interface for pitch operations
type PitchService interface {
	// CreatePitch creates a pitch owned by the business user
	CreatePitch(ctx context.Context, ownerID uuid.UUID, req CreatePitchRequest) (*models.Pitch, error)

	// UpdatePitch edits a draft or active pitch of the owner
	UpdatePitch(ctx context.Context, ownerID uuid.UUID, pitchID int64, req UpdatePitchRequest) (*models.Pitch, error)

	// ChangeStatus moves a pitch forward in its lifecycle
	ChangeStatus(ctx context.Context, ownerID uuid.UUID, pitchID int64, status models.PitchStatus) (*models.Pitch, error)

	// GetPitch returns a pitch; drafts are visible to their owner only
	GetPitch(ctx context.Context, viewerID uuid.UUID, pitchID int64) (*models.Pitch, error)

	// BrowsePitches lists active and funded pitches
	BrowsePitches(ctx context.Context, filter models.PitchFilter) ([]*models.Pitch, error)

	// GetPitchInvestors lists the investors of a pitch for its owner
	GetPitchInvestors(ctx context.Context, ownerID uuid.UUID, pitchID int64) ([]*models.PitchInvestor, error)

	// GetDashboard summarizes all pitches of the business user
	GetDashboard(ctx context.Context, ownerID uuid.UUID) (*models.BusinessDashboard, error)
}

// InvestmentService defines the interface for investment operations
type InvestmentService interface {
	// Invest places an investment in a pitch under the named tier
	Invest(ctx context.Context, investorID uuid.UUID, pitchID int64, amount int64, tierName string) (*models.InvestmentResult, error)

	// GetInvestments lists the investor's own investments
	GetInvestments(ctx context.Context, investorID uuid.UUID) ([]*models.Investment, error)
}

// DistributionService defines the interface for profit distribution
type DistributionService interface {
	// Declare distributes totalProfit from the owner's balance to the pitch investors
	Declare(ctx context.Context, ownerID uuid.UUID, pitchID int64, totalProfit int64, date time.Time) (*models.DistributionResult, error)

	// GetDistributions lists the distributions of a pitch for its owner or investors
	GetDistributions(ctx context.Context, viewerID uuid.UUID, pitchID int64) ([]*models.ProfitDistribution, error)

	// GetPayouts lists the investor's payouts
	GetPayouts(ctx context.Context, investorID uuid.UUID) ([]*models.InvestorPayout, error)

	// GetDistributionPayouts lists the payouts of one distribution. The owner
	// sees every payout, an investor only their own.
	GetDistributionPayouts(ctx context.Context, viewerID uuid.UUID, pitchID, distributionID int64) ([]*models.InvestorPayout, error)
}

// PortfolioService defines the interface for investor portfolio views
type PortfolioService interface {
	// GetPortfolio aggregates the investor's holdings, returns and ROI
	GetPortfolio(ctx context.Context, investorID uuid.UUID) (*models.Portfolio, error)
}

// WalletService defines the interface for deposits and withdrawals
type WalletService interface {
	// Deposit credits the user's balance
	Deposit(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error)

	// Withdraw debits the user's balance
	Withdraw(ctx context.Context, userID uuid.UUID, amount int64) (*models.Transaction, error)

	// GetTransactions lists the user's newest ledger entries
	GetTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Transaction, error)

	// GetTransactionsSince lists the user's ledger entries created at or after since
	GetTransactionsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Transaction, error)
}

// CreateCampaignRequest carries the fields of a new ad campaign
type CreateCampaignRequest struct {
	PitchID   int64
	Name      string
	Budget    int64
	StartDate time.Time
	EndDate   time.Time
}

// AdCampaignService defines the interface for ad campaign operations
type AdCampaignService interface {
	// CreateCampaign creates a draft campaign promoting one of the owner's pitches
	CreateCampaign(ctx context.Context, ownerID uuid.UUID, req CreateCampaignRequest) (*models.AdCampaign, error)

	// GetCampaigns lists the owner's campaigns
	GetCampaigns(ctx context.Context, ownerID uuid.UUID) ([]*models.AdCampaign, error)

	// ChangeStatus moves a campaign to a new status
	ChangeStatus(ctx context.Context, ownerID uuid.UUID, campaignID int64, status models.AdCampaignStatus) (*models.AdCampaign, error)
}
