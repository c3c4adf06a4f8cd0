package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mkalykov/startup-benefits/internal/domain"
	"github.com/mkalykov/startup-benefits/internal/metrics"
	"github.com/mkalykov/startup-benefits/internal/repository"
)

type ClaimUsecase struct {
	claims repository.ClaimRepository
	deals  repository.DealRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewClaimUsecase(
	claims repository.ClaimRepository,
	deals repository.DealRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ClaimUsecase {
	return &ClaimUsecase{
		claims: claims,
		deals:  deals,
		users:  users,
		logger: logger.With("component", "claim_usecase"),
	}
}

// ClaimDeal creates a pending claim for (identity, dealID). Preconditions
// run in order and the first failure wins: authenticated identity, well
// formed deal id, deal exists, user eligible, no prior claim.
//
// On domain.ErrClaimExists the existing claim is returned alongside the
// error so callers can show it. The final insert relies on the database's
// unique index, so a concurrent duplicate resolves to the same conflict
// instead of a second claim.
func (u *ClaimUsecase) ClaimDeal(ctx context.Context, identity domain.Identity, dealID string) (*domain.Claim, error) {
	if identity.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if uuid.Validate(dealID) != nil {
		return nil, domain.ErrInvalidDealID
	}

	deal, err := u.deals.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, domain.ErrDealNotFound) {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("find deal: %w", err)
	}

	// Eligibility is a server trust boundary, not a UI hint: locked deals
	// need admin verification, everything needs a verified email.
	user, err := u.users.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.EmailVerified {
		return nil, domain.ErrNotEligible
	}
	if deal.IsLocked && !user.AdminVerified {
		return nil, domain.ErrNotEligible
	}

	existing, err := u.claims.FindOne(ctx, identity.ID, dealID)
	if err == nil {
		metrics.ClaimConflictsTotal.Inc()
		return existing, domain.ErrClaimExists
	}
	if !errors.Is(err, domain.ErrClaimNotFound) {
		return nil, fmt.Errorf("find claim: %w", err)
	}

	created, err := u.claims.Insert(ctx, &domain.Claim{
		UserID: identity.ID,
		DealID: dealID,
		Status: domain.ClaimPending,
	})
	if err != nil {
		if errors.Is(err, domain.ErrClaimExists) {
			// Lost the race to a concurrent claim; report the winner's.
			metrics.ClaimConflictsTotal.Inc()
			winner, findErr := u.claims.FindOne(ctx, identity.ID, dealID)
			if findErr != nil {
				return nil, domain.ErrClaimExists
			}
			return winner, domain.ErrClaimExists
		}
		return nil, fmt.Errorf("insert claim: %w", err)
	}

	metrics.ClaimsCreatedTotal.Inc()
	u.logger.Info("deal claimed", "user_id", identity.ID, "deal_id", dealID)
	return created, nil
}

// ListUserClaims returns the identity's claims, most recent first.
func (u *ClaimUsecase) ListUserClaims(ctx context.Context, identity domain.Identity) ([]*domain.Claim, error) {
	if identity.ID == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := u.claims.ListByUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}
