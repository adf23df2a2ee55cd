package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the marketplace an account belongs to
type Role string

const (
	RoleBusiness Role = "business"
	RoleInvestor Role = "investor"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleBusiness || r == RoleInvestor
}

// User represents an account with its wallet balance
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	Role         Role      `db:"role" json:"role"`
	Balance      int64     `db:"balance" json:"balance"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsBusiness checks if the user has the business role
func (u *User) IsBusiness() bool {
	return u.Role == RoleBusiness
}

// IsInvestor checks if the user has the investor role
func (u *User) IsInvestor() bool {
	return u.Role == RoleInvestor
}

// CanAfford checks if the user has sufficient balance for an amount
func (u *User) CanAfford(amount int64) bool {
	return u.Balance >= amount
}

// ValidateDebit checks if an amount can be taken from the balance
func (u *User) ValidateDebit(amount int64) error {
	if amount <= 0 {
		return errors.New("amount must be positive")
	}
	if !u.CanAfford(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}

// BusinessUser holds the company profile of a business account
type BusinessUser struct {
	ID          int64     `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	CompanyName string    `db:"company_name" json:"company_name"`
	Industry    string    `db:"industry" json:"industry"`
	Description string    `db:"description" json:"description"`
	Website     string    `db:"website" json:"website"`
	Location    string    `db:"location" json:"location"`
	FoundedYear *int      `db:"founded_year" json:"founded_year,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UserProfile is the current user's view returned by the identity endpoint
type UserProfile struct {
	ID          uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name"`
	Role        Role          `json:"role"`
	Balance     int64         `json:"balance"`
	Business    *BusinessUser `json:"business,omitempty"`
}

// NewUserProfile builds the profile view of a user
func NewUserProfile(user *User, business *BusinessUser) *UserProfile {
	return &UserProfile{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Balance:     user.Balance,
		Business:    business,
	}
}

// Session is the result of a successful sign-in or sign-up
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *UserProfile `json:"user"`
}
