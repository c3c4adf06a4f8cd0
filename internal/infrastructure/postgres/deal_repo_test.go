package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/mkalykov/startup-benefits/internal/domain"
)

var dealTestColumns = []string{
	"id", "name", "slug", "short_description", "description", "category", "value",
	"discount", "company", "logo", "link", "coupon_code", "is_locked", "eligibility_text",
	"expiration_date", "is_featured", "is_available", "created_at", "updated_at",
}

func dealRow(id, slug string, featured bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(dealTestColumns).AddRow(
		id, "Cloud Credits", slug, "short", "long", domain.CategoryCloud, 5000,
		100, "Acme Cloud", "logo.png", "https://acme.example.com", "", false, "",
		now.Add(24*time.Hour), featured, true, now, now,
	)
}

func TestDealRepository_FindByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDealRepository(mock)

	mock.ExpectQuery(`FROM deals WHERE id = \$1`).
		WithArgs("d-1").
		WillReturnRows(dealRow("d-1", "cloud-credits", false))

	deal, err := repo.FindByID(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deal.Slug != "cloud-credits" || deal.Category != domain.CategoryCloud {
		t.Errorf("deal = %+v", deal)
	}
	expectMet(t, mock)
}

func TestDealRepository_FindBySlug_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDealRepository(mock)

	mock.ExpectQuery(`FROM deals WHERE slug = \$1`).
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindBySlug(context.Background(), "gone")
	if !errors.Is(err, domain.ErrDealNotFound) {
		t.Errorf("want ErrDealNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestDealRepository_List_FiltersByCategory(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDealRepository(mock)

	mock.ExpectQuery(`WHERE is_available`).
		WithArgs(string(domain.CategoryCloud)).
		WillReturnRows(dealRow("d-1", "cloud-credits", true))

	deals, err := repo.List(context.Background(), domain.CategoryCloud)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deals) != 1 || !deals[0].IsFeatured {
		t.Errorf("deals = %+v", deals)
	}
	expectMet(t, mock)
}

func TestDealRepository_List_AllCategories(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDealRepository(mock)

	mock.ExpectQuery(`WHERE is_available`).
		WithArgs("").
		WillReturnRows(pgxmock.NewRows(dealTestColumns))

	deals, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deals) != 0 {
		t.Errorf("deals = %+v, want empty", deals)
	}
	expectMet(t, mock)
}

func TestDealRepository_MarkExpired(t *testing.T) {
	mock := newMockPool(t)
	repo := NewDealRepository(mock)

	now := time.Now()
	mock.ExpectExec(`UPDATE deals SET is_available = false`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.MarkExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("rows affected = %d, want 3", n)
	}
	expectMet(t, mock)
}
