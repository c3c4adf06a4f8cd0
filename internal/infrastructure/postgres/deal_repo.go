package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mkalykov/startup-benefits/internal/domain"
)

const dealColumns = `id, name, slug, short_description, description, category, value,
		discount, company, logo, link, coupon_code, is_locked, eligibility_text,
		expiration_date, is_featured, is_available, created_at, updated_at`

type DealRepository struct {
	pool PgxPool
}

func NewDealRepository(pool PgxPool) *DealRepository {
	return &DealRepository{pool: pool}
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	return scanDeal(r.pool.QueryRow(ctx, query, id))
}

func (r *DealRepository) FindBySlug(ctx context.Context, slug string) (*domain.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE slug = $1`

	return scanDeal(r.pool.QueryRow(ctx, query, slug))
}

func (r *DealRepository) List(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error) {
	query := `
		SELECT ` + dealColumns + `
		FROM   deals
		WHERE  is_available
		  AND  ($1 = '' OR category = $1)
		ORDER BY is_featured DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []*domain.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	query := `
		INSERT INTO deals (
			name, slug, short_description, description, category, value,
			discount, company, logo, link, coupon_code, is_locked,
			eligibility_text, expiration_date, is_featured
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + dealColumns

	row := r.pool.QueryRow(ctx, query,
		deal.Name,
		deal.Slug,
		deal.ShortDescription,
		deal.Description,
		deal.Category,
		deal.Value,
		deal.Discount,
		deal.Company,
		deal.Logo,
		deal.Link,
		deal.CouponCode,
		deal.IsLocked,
		deal.EligibilityText,
		deal.ExpirationDate,
		deal.IsFeatured,
	)
	return scanDeal(row)
}

func (r *DealRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE deals SET is_available = false, updated_at = NOW()
		WHERE is_available AND expiration_date < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired deals: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var d domain.Deal
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Slug,
		&d.ShortDescription,
		&d.Description,
		&d.Category,
		&d.Value,
		&d.Discount,
		&d.Company,
		&d.Logo,
		&d.Link,
		&d.CouponCode,
		&d.IsLocked,
		&d.EligibilityText,
		&d.ExpirationDate,
		&d.IsFeatured,
		&d.IsAvailable,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDealNotFound
		}
		return nil, fmt.Errorf("scan deal: %w", err)
	}
	return &d, nil
}
