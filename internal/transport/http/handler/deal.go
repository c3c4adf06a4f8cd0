package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkalykov/startup-benefits/internal/domain"
)

type dealUsecaser interface {
	List(ctx context.Context, category domain.DealCategory) ([]*domain.Deal, error)
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
}

type DealHandler struct {
	deals  dealUsecaser
	logger *slog.Logger
}

func NewDealHandler(deals dealUsecaser, logger *slog.Logger) *DealHandler {
	return &DealHandler{deals: deals, logger: logger.With("component", "deal_handler")}
}

type dealResponse struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	ShortDescription string              `json:"short_description"`
	Description      string              `json:"description"`
	Category         domain.DealCategory `json:"category"`
	Value            int                 `json:"value"`
	Discount         int                 `json:"discount"`
	Company          string              `json:"company"`
	Logo             string              `json:"logo,omitempty"`
	Link             string              `json:"link"`
	CouponCode       string              `json:"coupon_code,omitempty"`
	IsLocked         bool                `json:"is_locked"`
	EligibilityText  string              `json:"eligibility_text,omitempty"`
	ExpirationDate   time.Time           `json:"expiration_date"`
	IsFeatured       bool                `json:"is_featured"`
}

func toDealResponse(d *domain.Deal) dealResponse {
	return dealResponse{
		ID:               d.ID,
		Name:             d.Name,
		Slug:             d.Slug,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,
		Category:         d.Category,
		Value:            d.Value,
		Discount:         d.Discount,
		Company:          d.Company,
		Logo:             d.Logo,
		Link:             d.Link,
		CouponCode:       d.CouponCode,
		IsLocked:         d.IsLocked,
		EligibilityText:  d.EligibilityText,
		ExpirationDate:   d.ExpirationDate,
		IsFeatured:       d.IsFeatured,
	}
}

// GET /deals?category=<category>
func (h *DealHandler) List(c *gin.Context) {
	category := domain.DealCategory(c.Query("category"))

	deals, err := h.deals.List(c.Request.Context(), category)
	if err != nil {
		h.logger.Error("list deals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := make([]dealResponse, 0, len(deals))
	for _, d := range deals {
		resp = append(resp, toDealResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"deals": resp})
}

// GET /deals/:id — accepts a deal UUID or slug.
func (h *DealHandler) GetByID(c *gin.Context) {
	deal, err := h.deals.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrDealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errDealNotFound})
			return
		}
		h.logger.Error("get deal", "deal_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toDealResponse(deal))
}
