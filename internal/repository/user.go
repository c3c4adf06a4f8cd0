package repository

import (
	"context"

	"github.com/mkalykov/startup-benefits/internal/domain"
)

// UserRepository persists principals. Email lookups are case-insensitive;
// callers lowercase before querying.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create inserts a new user; returns domain.ErrUserExists if the email
	// is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindOrCreate returns the user for the email, creating a bare record
	// if none exists yet.
	FindOrCreate(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
