package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/mkalykov/startup-benefits/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func expectMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func userRow(id, email string, emailVerified bool) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "email", "email_verified", "admin_verified", "profile", "created_at", "updated_at",
	}).AddRow(id, email, emailVerified, false, domain.Profile{Name: "Alice"}, now, now)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnRows(userRow("u-1", "alice@example.com", true))

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u-1" || !user.EmailVerified {
		t.Errorf("user = %+v", user)
	}
	if user.Profile.Name != "Alice" {
		t.Errorf("profile not scanned: %+v", user.Profile)
	}
	expectMet(t, mock)
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users \(email, email_verified, admin_verified, profile\)`).
		WithArgs("alice@example.com", false, false, domain.Profile{}).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &domain.User{Email: "alice@example.com"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("want ErrUserExists, got %v", err)
	}
	expectMet(t, mock)
}

func TestUserRepository_FindOrCreate_ReturnsRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`ON CONFLICT \(email\) DO UPDATE`).
		WithArgs("alice@example.com").
		WillReturnRows(userRow("u-1", "alice@example.com", false))

	user, err := repo.FindOrCreate(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	expectMet(t, mock)
}

func TestUserRepository_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	in := &domain.User{ID: "u-1", EmailVerified: true, Profile: domain.Profile{Name: "Alice"}}
	mock.ExpectQuery(`UPDATE users`).
		WithArgs(in.ID, true, false, in.Profile).
		WillReturnRows(userRow("u-1", "alice@example.com", true))

	user, err := repo.Update(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.EmailVerified {
		t.Errorf("email_verified not persisted: %+v", user)
	}
	expectMet(t, mock)
}
