package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fundbridge/events"
	"fundbridge/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest password accepted at sign-up
	MinPasswordLength = 8

	// MaxDisplayNameLength bounds the display name of an account
	MaxDisplayNameLength = 100
)

// Claims are the verified contents of a session token
type Claims struct {
	UserID    uuid.UUID
	Role      models.Role
	Email     string
	ExpiresAt time.Time
}

type authService struct {
	uowFactory UnitOfWorkFactory
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewAuthService creates a new auth service signing HS256 tokens with secret
func NewAuthService(uowFactory UnitOfWorkFactory, secret string, ttl time.Duration) AuthService {
	return &authService{
		uowFactory: uowFactory,
		secret:     []byte(secret),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.CompanyName = strings.TrimSpace(req.CompanyName)

	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: an account with this email already exists", ErrConflict)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         req.Role,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var business *models.BusinessUser
	if user.IsBusiness() && req.CompanyName != "" {
		business = &models.BusinessUser{
			UserID:      user.ID,
			CompanyName: req.CompanyName,
		}
		if err := uow.BusinessUserRepository().Upsert(ctx, business); err != nil {
			return nil, fmt.Errorf("failed to create business profile: %w", err)
		}
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.issue(user, business)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	var business *models.BusinessUser
	if user.IsBusiness() {
		business, err = uow.BusinessUserRepository().GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get business profile: %w", err)
		}
	}

	return s.issue(user, business)
}

func (s *authService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}

	subject, err := mapClaims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token subject", ErrUnauthorized)
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token subject", ErrUnauthorized)
	}

	role, _ := mapClaims["role"].(string)
	if !models.Role(role).IsValid() {
		return nil, fmt.Errorf("%w: invalid token role", ErrUnauthorized)
	}
	email, _ := mapClaims["email"].(string)

	expiresAt, err := mapClaims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, fmt.Errorf("%w: invalid token expiry", ErrUnauthorized)
	}

	return &Claims{
		UserID:    userID,
		Role:      models.Role(role),
		Email:     email,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// issue signs a token for the user and wraps it in a session
func (s *authService) issue(user *models.User, business *models.BusinessUser) (*models.Session, error) {
	expiresAt := s.now().Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"role":  string(user.Role),
		"email": user.Email,
		"exp":   expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.Session{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      models.NewUserProfile(user, business),
	}, nil
}

func validateSignUp(req SignUpRequest) error {
	// Address syntax is checked when the request is bound
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(req.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	// bcrypt rejects longer inputs
	if len(req.Password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes", ErrInvalidInput)
	}
	if !req.Role.IsValid() {
		return fmt.Errorf("%w: role must be business or investor", ErrInvalidInput)
	}
	if req.DisplayName == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}
	if len(req.DisplayName) > MaxDisplayNameLength {
		return fmt.Errorf("%w: display name must be at most %d characters", ErrInvalidInput, MaxDisplayNameLength)
	}
	if req.CompanyName != "" && req.Role != models.RoleBusiness {
		return fmt.Errorf("%w: only business accounts have a company name", ErrInvalidInput)
	}
	return nil
}
