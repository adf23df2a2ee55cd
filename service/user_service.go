package service

import (
	"context"
	"fmt"
	"strings"

	"fundbridge/models"

	"github.com/google/uuid"
)

type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	var business *models.BusinessUser
	if user.IsBusiness() {
		business, err = uow.BusinessUserRepository().GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get business profile: %w", err)
		}
	}

	return models.NewUserProfile(user, business), nil
}

func (s *userService) GetBusinessProfile(ctx context.Context, userID uuid.UUID) (*models.BusinessUser, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := requireRole(ctx, uow, userID, models.RoleBusiness); err != nil {
		return nil, err
	}

	profile, err := uow.BusinessUserRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: business profile", ErrNotFound)
	}
	return profile, nil
}

func (s *userService) UpsertBusinessProfile(ctx context.Context, userID uuid.UUID, profile *models.BusinessUser) (*models.BusinessUser, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", ErrInvalidInput)
	}
	profile.CompanyName = strings.TrimSpace(profile.CompanyName)
	if profile.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	if profile.FoundedYear != nil && (*profile.FoundedYear < 1800 || *profile.FoundedYear > 9999) {
		return nil, fmt.Errorf("%w: founded year is out of range", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := requireRole(ctx, uow, userID, models.RoleBusiness); err != nil {
		return nil, err
	}

	profile.UserID = userID
	if err := uow.BusinessUserRepository().Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save business profile: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return profile, nil
}

// requireRole loads the user and checks it holds the role
func requireRole(ctx context.Context, uow UnitOfWork, userID uuid.UUID, role models.Role) (*models.User, error) {
	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	if user.Role != role {
		return nil, fmt.Errorf("%w: %s account required", ErrForbidden, role)
	}
	return user, nil
}

// requireBusiness loads the business profile of a business user
func requireBusiness(ctx context.Context, uow UnitOfWork, userID uuid.UUID) (*models.BusinessUser, error) {
	if _, err := requireRole(ctx, uow, userID, models.RoleBusiness); err != nil {
		return nil, err
	}
	business, err := uow.BusinessUserRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get business profile: %w", err)
	}
	if business == nil {
		return nil, fmt.Errorf("%w: create a business profile first", ErrForbidden)
	}
	return business, nil
}
