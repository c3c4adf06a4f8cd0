package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkalykov/startup-benefits/internal/domain"
	"github.com/mkalykov/startup-benefits/internal/repository"
)

// DealUsecase covers the public, read-only side of the catalog.
type DealUsecase struct {
	deals repository.DealRepository
}

func NewDealUsecase(deals repository.DealRepository) *DealUsecase {
	return &DealUsecase{deals: deals}
}

func (u *DealUsecase) List(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error) {
	deals, err := u.deals.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return deals, nil
}

// GetByID resolves a deal by UUID, falling back to slug lookup so catalog
// pages can link either way.
func (u *DealUsecase) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	if uuid.Validate(id) == nil {
		return u.deals.FindByID(ctx, id)
	}
	return u.deals.FindBySlug(ctx, id)
}
