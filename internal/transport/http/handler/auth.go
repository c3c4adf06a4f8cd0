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
	"github.com/mkalykov/startup-benefits/internal/metrics"
	"github.com/mkalykov/startup-benefits/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error)
	RequestMagicLink(ctx context.Context, email string) (*usecase.MagicLinkResult, error)
	VerifyMagicLink(ctx context.Context, raw string) (*usecase.AuthResult, error)
	RefreshAccessToken(ctx context.Context, refreshRaw string) (string, int, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input usecase.UpdateProfileInput) (*domain.User, error)
}

type AuthHandler struct {
	auth   authUsecaser
	logger *slog.Logger
}

func NewAuthHandler(auth authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With("component", "auth_handler"),
	}
}

type userResponse struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	EmailVerified bool           `json:"email_verified"`
	AdminVerified bool           `json:"admin_verified"`
	Profile       domain.Profile `json:"profile"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		AdminVerified: u.AdminVerified,
		Profile:       u.Profile,
		CreatedAt:     u.CreatedAt,
	}
}

type registerRequest struct {
	Email   string `json:"email"   binding:"required,email"`
	Name    string `json:"name"    binding:"required,min=2,max=200"`
	Phone   string `json:"phone"   binding:"omitempty,max=50"`
	Company string `json:"company" binding:"omitempty,max=200"`
	Role    string `json:"role"    binding:"omitempty,max=100"`
}

type registerResponse struct {
	UserID    string `json:"user_id"`
	MagicLink string `json:"magic_link,omitempty"`
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Company: req.Company,
		Role:    req.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": errUserExists})
			return
		}
		h.logger.Error("register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.MagicLinksIssuedTotal.WithLabelValues("register").Inc()
	c.JSON(http.StatusCreated, registerResponse{
		UserID:    result.UserID,
		MagicLink: result.MagicLink,
	})
}

type magicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type magicLinkResponse struct {
	Message   string `json:"message"`
	MagicLink string `json:"magic_link,omitempty"`
}

// POST /auth/magic-link
// Email delivery failures are already swallowed inside the usecase; an error
// here means the store or the signer is broken, and that must not masquerade
// as success.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req magicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.RequestMagicLink(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("request magic link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.MagicLinksIssuedTotal.WithLabelValues("login").Inc()
	c.JSON(http.StatusOK, magicLinkResponse{
		Message:   "Sign-in link sent",
		MagicLink: result.MagicLink,
	})
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
}

// POST /auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.VerifyMagicLink(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
			metrics.MagicLinkVerificationsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		default:
			h.logger.Error("verify magic link", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.MagicLinkVerificationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, sessionResponse{
		User:         toUserResponse(result.User),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, expiresIn, err := h.auth.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
			metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		default:
			h.logger.Error("refresh access token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, refreshResponse{AccessToken: access, ExpiresIn: expiresIn})
}

// POST /auth/logout
// Sessions are stateless JWTs, so logout is client-side token disposal; the
// endpoint exists so clients have a uniform call to make.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	identity, ok := authctx.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	user, err := h.auth.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.Error("get profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	Name    *string `json:"name"     binding:"omitempty,max=200"`
	Phone   *string `json:"phone"    binding:"omitempty,max=50"`
	Company *string `json:"company"  binding:"omitempty,max=200"`
	Role    *string `json:"role"     binding:"omitempty,max=100"`
	Address *string `json:"address"  binding:"omitempty,max=300"`
	City    *string `json:"city"     binding:"omitempty,max=100"`
	State   *string `json:"state"    binding:"omitempty,max=100"`
	ZipCode *string `json:"zip_code" binding:"omitempty,max=20"`
	Country *string `json:"country"  binding:"omitempty,max=100"`
}

// PATCH /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity, ok := authctx.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), identity.ID, usecase.UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Company: req.Company,
		Role:    req.Role,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.Error("update profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
