package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkalykov/startup-benefits/internal/authctx"
	"github.com/mkalykov/startup-benefits/internal/domain"
	"github.com/mkalykov/startup-benefits/internal/repository"
	"github.com/mkalykov/startup-benefits/internal/token"
)

const (
	errUnauthorized = "Unauthorized"
	// Expired access tokens get a distinct message so clients know to hit
	// POST /auth/refresh instead of restarting the magic-link flow.
	errAccessExpired = "Access token expired, refresh your session"

	// IdentityKey is where Auth stores the authenticated domain.Identity in
	// the gin context.
	IdentityKey = "identity"
)

// Auth is the session gate. It validates the bearer access token, checks the
// account still exists, and attaches the identity to the request context.
func Auth(tokens *token.Service, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		payload, err := tokens.VerifyAccessToken(raw)
		if err != nil {
			msg := errUnauthorized
			if errors.Is(err, token.ErrExpired) {
				msg = errAccessExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		// A token can outlive its account; a deleted user must not pass.
		user, err := users.FindByID(c.Request.Context(), payload.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		identity := domain.Identity{ID: user.ID, Email: user.Email}
		c.Request = c.Request.WithContext(authctx.WithIdentity(c.Request.Context(), identity))
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// bearerToken parses an Authorization header. The scheme is case-insensitive
// and the header must be exactly "<scheme> <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
