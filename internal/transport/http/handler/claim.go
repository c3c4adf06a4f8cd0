package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkalykov/startup-benefits/internal/authctx"
	"github.com/mkalykov/startup-benefits/internal/domain"
)

type claimUsecaser interface {
	ClaimDeal(ctx context.Context, identity domain.Identity, dealID string) (*domain.Claim, error)
	ListUserClaims(ctx context.Context, identity domain.Identity) ([]*domain.Claim, error)
}

type ClaimHandler struct {
	claims claimUsecaser
	logger *slog.Logger
}

func NewClaimHandler(claims claimUsecaser, logger *slog.Logger) *ClaimHandler {
	return &ClaimHandler{claims: claims, logger: logger.With("component", "claim_handler")}
}

type createClaimRequest struct {
	DealID string `json:"deal_id" binding:"required"`
}

type claimResponse struct {
	ID        string             `json:"id"`
	DealID    string             `json:"deal_id"`
	Status    domain.ClaimStatus `json:"status"`
	ClaimedAt time.Time          `json:"claimed_at"`
	Notes     string             `json:"notes,omitempty"`
}

func toClaimResponse(cl *domain.Claim) claimResponse {
	return claimResponse{
		ID:        cl.ID,
		DealID:    cl.DealID,
		Status:    cl.Status,
		ClaimedAt: cl.ClaimedAt,
		Notes:     cl.Notes,
	}
}

// POST /claims
// A repeat claim answers 409 and echoes the existing claim, so clients can
// render it without a second request.
func (h *ClaimHandler) Create(c *gin.Context) {
	identity, ok := authctx.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	var req createClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim, err := h.claims.ClaimDeal(c.Request.Context(), identity, req.DealID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClaimExists):
			resp := gin.H{"error": errClaimExists}
			if claim != nil {
				resp["claim"] = toClaimResponse(claim)
			}
			c.JSON(http.StatusConflict, resp)
		case errors.Is(err, domain.ErrInvalidDealID):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidDealID})
		case errors.Is(err, domain.ErrDealNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errDealNotFound})
		case errors.Is(err, domain.ErrNotEligible):
			c.JSON(http.StatusForbidden, gin.H{"error": errNotEligible})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		default:
			h.logger.Error("claim deal", "deal_id", req.DealID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, toClaimResponse(claim))
}

// GET /claims/my
func (h *ClaimHandler) ListMy(c *gin.Context) {
	identity, ok := authctx.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	claims, err := h.claims.ListUserClaims(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		h.logger.Error("list claims", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	resp := make([]claimResponse, 0, len(claims))
	for _, cl := range claims {
		resp = append(resp, toClaimResponse(cl))
	}
	c.JSON(http.StatusOK, gin.H{"claims": resp})
}
