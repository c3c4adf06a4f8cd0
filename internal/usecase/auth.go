package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mkalykov/startup-benefits/internal/domain"
	"github.com/mkalykov/startup-benefits/internal/email"
	"github.com/mkalykov/startup-benefits/internal/repository"
	"github.com/mkalykov/startup-benefits/internal/token"
)

// Email dispatch must never hold up an auth response; a stuck provider is
// cut off after this deadline and the failure is only logged.
const emailDispatchTimeout = 5 * time.Second

type AuthUsecase struct {
	users           repository.UserRepository
	tokens          *token.Service
	email           email.Sender
	frontendBaseURL string
	devMode         bool
	logger          *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	tokens *token.Service,
	emailSender email.Sender,
	frontendBaseURL string,
	devMode bool,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:           users,
		tokens:          tokens,
		email:           emailSender,
		frontendBaseURL: frontendBaseURL,
		devMode:         devMode,
		logger:          logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Email   string
	Name    string
	Phone   string
	Company string
	Role    string
}

type RegisterResult struct {
	UserID string
	// MagicLink is populated in dev mode only, so the flow can be tested
	// without a working mailbox.
	MagicLink string
}

// Register creates a new, unverified user and sends a verification magic
// link. Fails with domain.ErrUserExists if the email is already registered.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	addr := normalizeEmail(input.Email)

	if _, err := u.users.FindByEmail(ctx, addr); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Email: addr,
		Profile: domain.Profile{
			Name:    input.Name,
			Phone:   input.Phone,
			Company: input.Company,
			Role:    input.Role,
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			// Lost a concurrent registration race; same outcome.
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	link, err := u.issueMagicLink(user)
	if err != nil {
		return nil, err
	}
	u.dispatchMagicLink(ctx, user, link)

	result := &RegisterResult{UserID: user.ID}
	if u.devMode {
		result.MagicLink = link
	}
	return result, nil
}

type MagicLinkResult struct {
	// MagicLink is populated in dev mode only.
	MagicLink string
}

// RequestMagicLink finds or creates the user for the email and sends a fresh
// sign-in link. Already-verified users go through the same path to
// re-authenticate.
func (u *AuthUsecase) RequestMagicLink(ctx context.Context, emailAddr string) (*MagicLinkResult, error) {
	user, err := u.users.FindOrCreate(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	link, err := u.issueMagicLink(user)
	if err != nil {
		return nil, err
	}
	u.dispatchMagicLink(ctx, user, link)

	result := &MagicLinkResult{}
	if u.devMode {
		result.MagicLink = link
	}
	return result, nil
}

type AuthResult struct {
	User   *domain.User
	Tokens *token.Pair
}

// VerifyMagicLink exchanges a magic-link token for a session. The first
// successful verification flips the user's email_verified flag; subsequent
// ones are idempotent. Returns the user snapshot plus a fresh access/refresh
// pair.
func (u *AuthUsecase) VerifyMagicLink(ctx context.Context, raw string) (*AuthResult, error) {
	payload, err := u.tokens.VerifyMagicLink(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	user, err := u.users.FindByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.EmailVerified {
		user.EmailVerified = true
		if user, err = u.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("mark user verified: %w", err)
		}
	}

	pair, err := u.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated; it stays usable until its expiry.
func (u *AuthUsecase) RefreshAccessToken(ctx context.Context, refreshRaw string) (accessToken string, expiresIn int, err error) {
	payload, err := u.tokens.VerifyRefreshToken(refreshRaw)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	user, err := u.users.FindByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", 0, domain.ErrUserNotFound
		}
		return "", 0, fmt.Errorf("find user: %w", err)
	}

	access, err := u.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return "", 0, err
	}
	return access, int(u.tokens.AccessTTL().Seconds()), nil
}

func (u *AuthUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name    *string
	Phone   *string
	Company *string
	Role    *string
	Address *string
	City    *string
	State   *string
	ZipCode *string
	Country *string
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&user.Profile.Name, input.Name)
	apply(&user.Profile.Phone, input.Phone)
	apply(&user.Profile.Company, input.Company)
	apply(&user.Profile.Role, input.Role)
	apply(&user.Profile.Address, input.Address)
	apply(&user.Profile.City, input.City)
	apply(&user.Profile.State, input.State)
	apply(&user.Profile.ZipCode, input.ZipCode)
	apply(&user.Profile.Country, input.Country)

	updated, err := u.users.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

func (u *AuthUsecase) issueMagicLink(user *domain.User) (string, error) {
	tok, err := u.tokens.IssueMagicLink(user.ID, user.Email)
	if err != nil {
		return "", err
	}
	return u.frontendBaseURL + "/auth/verify?token=" + tok, nil
}

// dispatchMagicLink emails the link with a bounded deadline. Delivery
// failure is logged and swallowed: the token is already issued and valid, so
// the triggering operation must not fail.
func (u *AuthUsecase) dispatchMagicLink(ctx context.Context, user *domain.User, link string) {
	sendCtx, cancel := context.WithTimeout(ctx, emailDispatchTimeout)
	defer cancel()

	subject, htmlBody, textBody := email.MagicLinkMessage(link, user.Profile.Name)
	if err := u.email.Send(sendCtx, user.Email, subject, htmlBody, textBody); err != nil {
		u.logger.Warn("magic link email failed, token remains valid", "to", user.Email, "error", err)
	}
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
