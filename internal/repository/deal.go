package repository

import (
	"context"
	"time"

	"github.com/mkalykov/startup-benefits/internal/domain"
)

type DealRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Deal, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Deal, error)
	// List returns available deals, optionally filtered by category.
	List(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error)
	Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	// MarkExpired flags deals whose expiration date has passed as
	// unavailable and reports how many rows changed.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
