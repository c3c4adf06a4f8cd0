package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mkalykov/startup-benefits/internal/domain"
)

const claimColumns = `id, user_id, deal_id, status, claimed_at, notes, created_at, updated_at`

type ClaimRepository struct {
	pool PgxPool
}

func NewClaimRepository(pool PgxPool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

func (r *ClaimRepository) FindOne(ctx context.Context, userID, dealID string) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE user_id = $1 AND deal_id = $2`

	return scanClaim(r.pool.QueryRow(ctx, query, userID, dealID))
}

// Insert creates a pending claim. The unique index on (user_id, deal_id) is
// the race guard: of two concurrent inserts exactly one succeeds and the
// other surfaces here as domain.ErrClaimExists.
func (r *ClaimRepository) Insert(ctx context.Context, claim *domain.Claim) (*domain.Claim, error) {
	query := `
		INSERT INTO claims (user_id, deal_id, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + claimColumns

	row := r.pool.QueryRow(ctx, query,
		claim.UserID,
		claim.DealID,
		claim.Status,
		claim.Notes,
	)

	created, err := scanClaim(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrClaimExists
		}
		return nil, err
	}
	return created, nil
}

func (r *ClaimRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE user_id = $1 ORDER BY claimed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []*domain.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func scanClaim(row pgx.Row) (*domain.Claim, error) {
	var c domain.Claim
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.DealID,
		&c.Status,
		&c.ClaimedAt,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, fmt.Errorf("scan claim: %w", err)
	}
	return &c, nil
}
