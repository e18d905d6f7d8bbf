package token

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
)

type stubVersions struct {
	versions map[string]int
}

func (s *stubVersions) TokenVersion(_ context.Context, userID string) (int, error) {
	v, ok := s.versions[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return v, nil
}

func newTestService(versions map[string]int) *Service {
	return NewService([]byte("access-secret"), []byte("refresh-secret"), &stubVersions{versions: versions})
}

func testPayload() Payload {
	return Payload{
		UserID:   "user-1",
		TenantID: "tenant-1",
		Email:    "dev@acme.test",
		Role:     domain.RoleEmployer,
		Company:  "Acme",
	}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})

	pair, err := svc.Issue(context.Background(), testPayload())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	got, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testPayload(), got)
}

func TestVerifyAccessRejectsWrongSecret(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})
	other := NewService([]byte("other-secret"), []byte("refresh-secret"), &stubVersions{versions: map[string]int{"user-1": 0}})

	pair, err := other.Issue(context.Background(), testPayload())
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})

	expired, err := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		User: testPayload(),
	}, []byte("access-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyAccess(expired)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerifyAccessRejectsForeignAlgorithm(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})

	// Signed with the right secret but the wrong algorithm. Verification is
	// pinned to HS256; nothing else passes, no matter the key.
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		User: testPayload(),
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyAccess(foreign)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		User: testPayload(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(unsigned)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerifyAccessRejectsGarbage(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})
	_, err := svc.VerifyAccess("not-a-jwt")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRefreshMintsAccessWithoutRotating(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})

	pair, err := svc.Issue(context.Background(), testPayload())
	require.NoError(t, err)

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	got, err := svc.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, testPayload(), got)

	// The same refresh token keeps working; refresh never rotates it.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})

	pair, err := svc.Issue(context.Background(), testPayload())
	require.NoError(t, err)

	// Tokens are signed with scope-specific secrets; an access token never
	// passes refresh verification.
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRefreshRejectsBumpedVersion(t *testing.T) {
	versions := map[string]int{"user-1": 0}
	svc := newTestService(versions)

	pair, err := svc.Issue(context.Background(), testPayload())
	require.NoError(t, err)

	versions["user-1"] = 1

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResetTokensRotatesPair(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0})

	pair, err := svc.Issue(context.Background(), testPayload())
	require.NoError(t, err)

	fresh := testPayload()
	fresh.Company = "Acme Robotics"

	rotated, err := svc.ResetTokens(context.Background(), fresh, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	got, err := svc.VerifyAccess(rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "Acme Robotics", got.Company)
}

func TestResetTokensRejectsForeignRefresh(t *testing.T) {
	svc := newTestService(map[string]int{"user-1": 0, "user-2": 0})

	other := testPayload()
	other.UserID = "user-2"
	otherPair, err := svc.Issue(context.Background(), other)
	require.NoError(t, err)

	_, err = svc.ResetTokens(context.Background(), testPayload(), otherPair.RefreshToken)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
