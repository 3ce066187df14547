package repository

import (
	"context"

	"ridehail/internal/domain"
)

// UserRepository defines the persistence operations for accounts.
type UserRepository interface {
	// Create persists a new account.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves an account by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByPhone retrieves an account by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// List retrieves all accounts.
	List(ctx context.Context) ([]*domain.User, error)

	// ListByRole retrieves all accounts with the given role.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// SetBlocked sets the blocked flag on an account.
	SetBlocked(ctx context.Context, id string, blocked bool) error

	// SetDriverFlags sets the approval and suspension flags on a driver
	// account. ErrNotFound when the ID does not resolve to a driver.
	SetDriverFlags(ctx context.Context, id string, approved, suspended bool) error

	// SetDriverOnline sets the availability flag on a driver account.
	SetDriverOnline(ctx context.Context, id string, online bool) error
}
