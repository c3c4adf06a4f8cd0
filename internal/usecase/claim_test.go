package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/mkalykov/startup-benefits/internal/domain"
	"github.com/mkalykov/startup-benefits/internal/usecase"
)

// ---- fakes ----

type fakeClaimRepo struct {
	findOne    func(ctx context.Context, userID, dealID string) (*domain.Claim, error)
	insert     func(ctx context.Context, claim *domain.Claim) (*domain.Claim, error)
	listByUser func(ctx context.Context, userID string) ([]*domain.Claim, error)
}

func (r *fakeClaimRepo) FindOne(ctx context.Context, userID, dealID string) (*domain.Claim, error) {
	return r.findOne(ctx, userID, dealID)
}

func (r *fakeClaimRepo) Insert(ctx context.Context, claim *domain.Claim) (*domain.Claim, error) {
	return r.insert(ctx, claim)
}

func (r *fakeClaimRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Claim, error) {
	return r.listByUser(ctx, userID)
}

type fakeDealRepo struct {
	findByID   func(ctx context.Context, id string) (*domain.Deal, error)
	findBySlug func(ctx context.Context, slug string) (*domain.Deal, error)
	list       func(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error)
}

func (r *fakeDealRepo) FindByID(ctx context.Context, id string) (*domain.Deal, error) {
	return r.findByID(ctx, id)
}

func (r *fakeDealRepo) FindBySlug(ctx context.Context, slug string) (*domain.Deal, error) {
	if r.findBySlug == nil {
		return nil, domain.ErrDealNotFound
	}
	return r.findBySlug(ctx, slug)
}

func (r *fakeDealRepo) List(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error) {
	if r.list == nil {
		return nil, nil
	}
	return r.list(ctx, category)
}

func (r *fakeDealRepo) Create(_ context.Context, _ *domain.Deal) (*domain.Deal, error) {
	return nil, nil
}

func (r *fakeDealRepo) MarkExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

// ---- helpers ----

const (
	claimUserID = "22222222-2222-2222-2222-222222222222"
	claimDealID = "33333333-3333-3333-3333-333333333333"
)

var claimIdentity = domain.Identity{ID: claimUserID, Email: "alice@example.com"}

func verifiedUserRepo(adminVerified bool) *fakeUserRepo {
	return &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{
				ID:            id,
				Email:         "alice@example.com",
				EmailVerified: true,
				AdminVerified: adminVerified,
			}, nil
		},
	}
}

func openDealRepo() *fakeDealRepo {
	return &fakeDealRepo{
		findByID: func(_ context.Context, id string) (*domain.Deal, error) {
			return &domain.Deal{ID: id, Name: "Cloud Credits"}, nil
		},
	}
}

func noExistingClaims() func(ctx context.Context, userID, dealID string) (*domain.Claim, error) {
	return func(_ context.Context, _, _ string) (*domain.Claim, error) {
		return nil, domain.ErrClaimNotFound
	}
}

func newClaimUsecase(claims *fakeClaimRepo, deals *fakeDealRepo, users *fakeUserRepo) *usecase.ClaimUsecase {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return usecase.NewClaimUsecase(claims, deals, users, logger)
}

// ---- ClaimDeal ----

func TestClaimDeal_Success_CreatesPendingClaim(t *testing.T) {
	claims := &fakeClaimRepo{
		findOne: noExistingClaims(),
		insert: func(_ context.Context, c *domain.Claim) (*domain.Claim, error) {
			if c.Status != domain.ClaimPending {
				t.Errorf("inserted status = %q, want pending", c.Status)
			}
			created := *c
			created.ID = "claim-1"
			created.ClaimedAt = time.Now()
			return &created, nil
		},
	}

	claim, err := newClaimUsecase(claims, openDealRepo(), verifiedUserRepo(false)).
		ClaimDeal(context.Background(), claimIdentity, claimDealID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claim.UserID != claimUserID || claim.DealID != claimDealID {
		t.Errorf("claim = %+v, want user/deal ids set", claim)
	}
	if claim.Status != domain.ClaimPending {
		t.Errorf("status = %q, want pending", claim.Status)
	}
}

func TestClaimDeal_NoIdentity_Unauthorized(t *testing.T) {
	_, err := newClaimUsecase(&fakeClaimRepo{}, &fakeDealRepo{}, &fakeUserRepo{}).
		ClaimDeal(context.Background(), domain.Identity{}, claimDealID)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}
}

func TestClaimDeal_MalformedDealID_BadRequest(t *testing.T) {
	_, err := newClaimUsecase(&fakeClaimRepo{}, &fakeDealRepo{}, &fakeUserRepo{}).
		ClaimDeal(context.Background(), claimIdentity, "not-a-uuid")
	if !errors.Is(err, domain.ErrInvalidDealID) {
		t.Errorf("want ErrInvalidDealID, got %v", err)
	}
}

func TestClaimDeal_DealMissing_NotFound(t *testing.T) {
	deals := &fakeDealRepo{
		findByID: func(_ context.Context, _ string) (*domain.Deal, error) {
			return nil, domain.ErrDealNotFound
		},
	}

	_, err := newClaimUsecase(&fakeClaimRepo{}, deals, &fakeUserRepo{}).
		ClaimDeal(context.Background(), claimIdentity, claimDealID)
	if !errors.Is(err, domain.ErrDealNotFound) {
		t.Errorf("want ErrDealNotFound, got %v", err)
	}
}

func TestClaimDeal_UnverifiedEmail_NotEligible(t *testing.T) {
	users := &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, EmailVerified: false}, nil
		},
	}

	_, err := newClaimUsecase(&fakeClaimRepo{}, openDealRepo(), users).
		ClaimDeal(context.Background(), claimIdentity, claimDealID)
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Errorf("want ErrNotEligible, got %v", err)
	}
}

func TestClaimDeal_LockedDeal_RequiresAdminVerification(t *testing.T) {
	deals := &fakeDealRepo{
		findByID: func(_ context.Context, id string) (*domain.Deal, error) {
			return &domain.Deal{ID: id, IsLocked: true}, nil
		},
	}

	_, err := newClaimUsecase(&fakeClaimRepo{}, deals, verifiedUserRepo(false)).
		ClaimDeal(context.Background(), claimIdentity, claimDealID)
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Errorf("want ErrNotEligible, got %v", err)
	}

	claims := &fakeClaimRepo{
		findOne: noExistingClaims(),
		insert: func(_ context.Context, c *domain.Claim) (*domain.Claim, error) {
			return c, nil
		},
	}
	if _, err := newClaimUsecase(claims, deals, verifiedUserRepo(true)).
		ClaimDeal(context.Background(), claimIdentity, claimDealID); err != nil {
		t.Errorf("admin-verified user rejected from locked deal: %v", err)
	}
}

func TestClaimDeal_ExistingClaim_ConflictWithClaim(t *testing.T) {
	existing := &domain.Claim{ID: "claim-1", UserID: claimUserID, DealID: claimDealID}
	claims := &fakeClaimRepo{
		findOne: func(_ context.Context, _, _ string) (*domain.Claim, error) {
			return existing, nil
		},
	}

	claim, err := newClaimUsecase(claims, openDealRepo(), verifiedUserRepo(false)).
		ClaimDeal(context.Background(), claimIdentity, claimDealID)
	if !errors.Is(err, domain.ErrClaimExists) {
		t.Fatalf("want ErrClaimExists, got %v", err)
	}
	if claim == nil || claim.ID != existing.ID {
		t.Errorf("conflict must return the existing claim, got %+v", claim)
	}
}

// Simulates losing the insert race: FindOne sees nothing, the insert hits
// the unique index, and the winner's claim comes back with the conflict.
func TestClaimDeal_InsertRace_ConflictWithWinner(t *testing.T) {
	winner := &domain.Claim{ID: "claim-2", UserID: claimUserID, DealID: claimDealID}
	checked := false
	claims := &fakeClaimRepo{
		findOne: func(_ context.Context, _, _ string) (*domain.Claim, error) {
			if !checked {
				checked = true
				return nil, domain.ErrClaimNotFound
			}
			return winner, nil
		},
		insert: func(_ context.Context, _ *domain.Claim) (*domain.Claim, error) {
			return nil, domain.ErrClaimExists
		},
	}

	claim, err := newClaimUsecase(claims, openDealRepo(), verifiedUserRepo(false)).
		ClaimDeal(context.Background(), claimIdentity, claimDealID)
	if !errors.Is(err, domain.ErrClaimExists) {
		t.Fatalf("want ErrClaimExists, got %v", err)
	}
	if claim == nil || claim.ID != winner.ID {
		t.Errorf("conflict must return the winning claim, got %+v", claim)
	}
}

// ---- ListUserClaims ----

func TestListUserClaims_PassesThrough(t *testing.T) {
	want := []*domain.Claim{{ID: "c2"}, {ID: "c1"}}
	claims := &fakeClaimRepo{
		listByUser: func(_ context.Context, userID string) ([]*domain.Claim, error) {
			if userID != claimUserID {
				t.Errorf("userID = %q, want %q", userID, claimUserID)
			}
			return want, nil
		},
	}

	got, err := newClaimUsecase(claims, &fakeDealRepo{}, &fakeUserRepo{}).
		ListUserClaims(context.Background(), claimIdentity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c2" {
		t.Errorf("claims = %+v, want most recent first", got)
	}
}

func TestListUserClaims_NoIdentity_Unauthorized(t *testing.T) {
	_, err := newClaimUsecase(&fakeClaimRepo{}, &fakeDealRepo{}, &fakeUserRepo{}).
		ListUserClaims(context.Background(), domain.Identity{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}
}
