package repository

import (
	"context"

	"github.com/mkalykov/startup-benefits/internal/domain"
)

type ClaimRepository interface {
	// FindOne returns the claim for (userID, dealID), or
	// domain.ErrClaimNotFound.
	FindOne(ctx context.Context, userID, dealID string) (*domain.Claim, error)
	// Insert creates a pending claim. The claims table carries a compound
	// unique index on (user_id, deal_id); a duplicate insert returns
	// domain.ErrClaimExists, which makes concurrent double-claims safe.
	Insert(ctx context.Context, claim *domain.Claim) (*domain.Claim, error)
	// ListByUser returns the user's claims, most recent first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Claim, error)
}
