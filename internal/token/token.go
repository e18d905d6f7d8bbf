// Package token implements the session token lifecycle: short-lived access
// tokens, long-lived refresh tokens, and the site-scoped cookies carrying
// them. Verification failures never escape as server errors; callers get an
// explicit domain.ErrUnauthenticated and must treat the request as anonymous.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

const (
	// AccessValidity keeps the blast radius of a leaked access token small.
	AccessValidity = 15 * time.Minute
	// RefreshValidity matches the 1-year session cookie.
	RefreshValidity = 365 * 24 * time.Hour
)

// Payload is the user identity serialized into both tokens.
type Payload struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Company  string `json:"company,omitempty"`
}

// Claims carries the payload plus, in refresh tokens, the user's token
// version. Bumping the stored version invalidates every refresh token minted
// before the bump.
type Claims struct {
	jwt.RegisteredClaims
	User         Payload `json:"user"`
	TokenVersion int     `json:"tokenVersion,omitempty"`
}

// Pair is one issued session.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// VersionSource exposes the stored refresh-token version per user.
type VersionSource interface {
	TokenVersion(ctx context.Context, userID string) (int, error)
}

// Service signs and verifies session tokens. Secrets are scope-independent:
// one for access tokens, one for refresh tokens. Site scoping is enforced by
// which cookie carries the refresh token, not by the token itself.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	versions      VersionSource
}

func NewService(accessSecret, refreshSecret []byte, versions VersionSource) *Service {
	return &Service{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		versions:      versions,
	}
}

func sign(claims Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parse(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// Issue mints a fresh token pair for the user. The refresh token embeds the
// user's current token version.
func (s *Service) Issue(ctx context.Context, user Payload) (Pair, error) {
	version, err := s.versions.TokenVersion(ctx, user.UserID)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to load token version: %w", err)
	}

	now := time.Now()
	access, err := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		User: user,
	}, s.accessSecret)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		User:         user,
		TokenVersion: version,
	}, s.refreshSecret)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its payload. Any
// failure (signature, expiry, malformed input) resolves to
// domain.ErrUnauthenticated; a payload from a failed verification is never
// returned.
func (s *Service) VerifyAccess(tokenString string) (Payload, error) {
	claims, err := parse(tokenString, s.accessSecret)
	if err != nil {
		return Payload{}, err
	}
	return claims.User, nil
}

// verifyRefresh validates a refresh token against its signature, expiry and
// the stored token version.
func (s *Service) verifyRefresh(ctx context.Context, tokenString string) (Payload, error) {
	claims, err := parse(tokenString, s.refreshSecret)
	if err != nil {
		return Payload{}, err
	}
	version, err := s.versions.TokenVersion(ctx, claims.User.UserID)
	if err != nil {
		return Payload{}, fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
	}
	if version != claims.TokenVersion {
		return Payload{}, fmt.Errorf("refresh token revoked: %w", domain.ErrUnauthenticated)
	}
	return claims.User, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is NOT rotated on this path.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	user, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	now := time.Now()
	access, err := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		User: user,
	}, s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return access, nil
}

// ResetTokens rotates the whole pair after a profile mutation changed the
// payload future tokens should embed. The old refresh token must still
// verify; this is the only path that rotates the refresh token.
func (s *Service) ResetTokens(ctx context.Context, fresh Payload, oldRefreshToken string) (Pair, error) {
	old, err := s.verifyRefresh(ctx, oldRefreshToken)
	if err != nil {
		return Pair{}, err
	}
	if old.UserID != fresh.UserID {
		return Pair{}, fmt.Errorf("refresh token belongs to another user: %w", domain.ErrUnauthenticated)
	}
	return s.Issue(ctx, fresh)
}
