// Package token issues and verifies the signed, self-contained tokens that
// drive passwordless authentication: short-lived magic-link tokens, access
// tokens presented on every request, and long-lived refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates what a token may be used for. A token verifies only
// against the kind it was issued with.
type Kind string

const (
	KindMagicLink Kind = "magic-link"
	KindAccess    Kind = "access"
	KindRefresh   Kind = "refresh"
)

var (
	// ErrExpired marks a structurally valid token past its expiry.
	ErrExpired = errors.New("token is expired")
	// ErrInvalid marks a malformed or tampered token.
	ErrInvalid = errors.New("token is invalid")
	// ErrWrongKind marks a valid token presented in the wrong context,
	// e.g. a magic-link token used as an access token.
	ErrWrongKind = errors.New("unexpected token type")
)

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Type  Kind   `json:"type,omitempty"`
}

// Payload is the verified content of a token.
type Payload struct {
	UserID    string
	Email     string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Pair bundles a freshly issued access+refresh token set. ExpiresIn is the
// access token's lifetime in seconds, matching its actual exp claim.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Service signs and verifies tokens with a process-wide HMAC key injected at
// construction. Rotating the key invalidates everything previously issued.
type Service struct {
	signingKey   []byte
	magicLinkTTL time.Duration
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewService(signingKey []byte, magicLinkTTL, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		signingKey:   signingKey,
		magicLinkTTL: magicLinkTTL,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

// AccessTTL exposes the configured access-token lifetime so callers can
// report expires_in consistently with the tokens they hand out.
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *Service) issue(userID, email string, kind Kind, ttl time.Duration) (string, error) {
	now := time.Now()
	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Type:  kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *Service) IssueMagicLink(userID, email string) (string, error) {
	return s.issue(userID, email, KindMagicLink, s.magicLinkTTL)
}

func (s *Service) IssueAccessToken(userID, email string) (string, error) {
	return s.issue(userID, email, KindAccess, s.accessTTL)
}

func (s *Service) IssueRefreshToken(userID, email string) (string, error) {
	return s.issue(userID, email, KindRefresh, s.refreshTTL)
}

// IssuePair issues an access+refresh token set for a freshly authenticated
// user.
func (s *Service) IssuePair(userID, email string) (*Pair, error) {
	access, err := s.IssueAccessToken(userID, email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefreshToken(userID, email)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

// Verify checks signature and expiry, then matches the token's kind against
// expected. Tokens without a type claim predate kind separation and are
// accepted only where an access token is expected.
func (s *Service) Verify(raw string, expected Kind) (*Payload, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}

	if c.Type == "" {
		if expected != KindAccess {
			return nil, fmt.Errorf("%w: got untyped token, want %q", ErrWrongKind, expected)
		}
	} else if c.Type != expected {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongKind, c.Type, expected)
	}

	p := &Payload{
		UserID: c.Subject,
		Email:  c.Email,
		Kind:   c.Type,
	}
	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		p.ExpiresAt = c.ExpiresAt.Time
	}
	return p, nil
}

func (s *Service) VerifyMagicLink(raw string) (*Payload, error) {
	return s.Verify(raw, KindMagicLink)
}

func (s *Service) VerifyAccessToken(raw string) (*Payload, error) {
	return s.Verify(raw, KindAccess)
}

func (s *Service) VerifyRefreshToken(raw string) (*Payload, error) {
	return s.Verify(raw, KindRefresh)
}
