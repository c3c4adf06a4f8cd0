package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mkalykov/startup-benefits/internal/domain"
	"github.com/mkalykov/startup-benefits/internal/transport/http/handler"
)

type fakeDealUsecase struct {
	list    func(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error)
	getByID func(ctx context.Context, id string) (*domain.Deal, error)
}

func (f *fakeDealUsecase) List(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error) {
	return f.list(ctx, category)
}

func (f *fakeDealUsecase) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	return f.getByID(ctx, id)
}

func newDealEngine(uc *fakeDealUsecase) *gin.Engine {
	h := handler.NewDealHandler(uc, testLogger())

	r := gin.New()
	r.GET("/deals", h.List)
	r.GET("/deals/:id", h.GetByID)
	return r
}

func TestListDeals_PassesCategoryFilter(t *testing.T) {
	uc := &fakeDealUsecase{
		list: func(_ context.Context, category domain.DealCategory) ([]*domain.Deal, error) {
			if category != domain.CategoryCloud {
				t.Errorf("category = %q, want cloud", category)
			}
			return []*domain.Deal{
				{ID: "d-1", Name: "Cloud Credits", Slug: "cloud-credits", Category: domain.CategoryCloud},
			}, nil
		},
	}

	w := doJSON(t, newDealEngine(uc), http.MethodGet, "/deals?category=cloud", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Deals []struct {
			Slug string `json:"slug"`
		} `json:"deals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Deals) != 1 || resp.Deals[0].Slug != "cloud-credits" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListDeals_Empty_ReturnsEmptyArray(t *testing.T) {
	uc := &fakeDealUsecase{
		list: func(_ context.Context, _ domain.DealCategory) ([]*domain.Deal, error) {
			return nil, nil
		},
	}

	w := doJSON(t, newDealEngine(uc), http.MethodGet, "/deals", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"deals":[]}` {
		t.Errorf("body = %s, want empty deals array, not null", body)
	}
}

func TestGetDeal_Success(t *testing.T) {
	uc := &fakeDealUsecase{
		getByID: func(_ context.Context, id string) (*domain.Deal, error) {
			return &domain.Deal{ID: id, Name: "Cloud Credits", IsLocked: true}, nil
		},
	}

	w := doJSON(t, newDealEngine(uc), http.MethodGet, "/deals/d-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		ID       string `json:"id"`
		IsLocked bool   `json:"is_locked"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ID != "d-1" || !resp.IsLocked {
		t.Errorf("resp = %+v", resp)
	}
}

func TestGetDeal_NotFound_Returns404(t *testing.T) {
	uc := &fakeDealUsecase{
		getByID: func(_ context.Context, _ string) (*domain.Deal, error) {
			return nil, domain.ErrDealNotFound
		},
	}

	w := doJSON(t, newDealEngine(uc), http.MethodGet, "/deals/gone", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
