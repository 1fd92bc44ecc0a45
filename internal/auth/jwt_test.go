// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/config"
	"github.com/bhashai/gateway/internal/core"
)

const testSecret = "test-secret-that-is-at-least-32-bytes!"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:    testSecret,
		TokenTTL:  24 * time.Hour,
		ClockSkew: 30 * time.Second,
		Issuer:    "bhashai-gateway",
		Audience:  "bhashai-api",
	}
}

func newTestJWT(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testJWTConfig())
	require.NoError(t, err)
	return m
}

func TestNewJWTManagerValidation(t *testing.T) {
	cfg := testJWTConfig()
	cfg.ClockSkew = 2 * time.Minute
	_, err := NewJWTManager(cfg)
	assert.Error(t, err)

	cfg = testJWTConfig()
	cfg.Secret = "short"
	_, err = NewJWTManager(cfg)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestJWT(t)

	signed, err := m.CreateAccessToken(AccessTokenClaims{
		UserID:       "u1",
		Role:         access.RoleUser,
		EnterpriseID: "e1",
		Tier:         "trial",
	})
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(context.Background(), signed.Token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, access.RoleUser, claims.Role)
	assert.Equal(t, "e1", claims.EnterpriseID)
	assert.Equal(t, "trial", claims.Tier)
	assert.Equal(t, signed.TokenID, claims.TokenID)
	assert.WithinDuration(t, signed.ExpiresAt, claims.ExpiresAt, time.Second)
	assert.WithinDuration(t, signed.IssuedAt.Add(24*time.Hour), claims.ExpiresAt, time.Second)
}

func TestSuperAdminTokenHasNoEnterprise(t *testing.T) {
	m := newTestJWT(t)

	signed, err := m.CreateAccessToken(AccessTokenClaims{
		UserID: "s1",
		Role:   access.RoleSuperAdmin,
	})
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(context.Background(), signed.Token)
	require.NoError(t, err)
	assert.Equal(t, access.RoleSuperAdmin, claims.Role)
	assert.Empty(t, claims.EnterpriseID)
}

func TestClaimDerivationIsDeterministic(t *testing.T) {
	m := newTestJWT(t)
	in := AccessTokenClaims{UserID: "u1", Role: access.RoleAdmin, EnterpriseID: "e1"}

	a, err := m.CreateAccessToken(in)
	require.NoError(t, err)
	b, err := m.CreateAccessToken(in)
	require.NoError(t, err)

	assert.NotEqual(t, a.TokenID, b.TokenID)

	ca, err := m.ParseAccessToken(context.Background(), a.Token)
	require.NoError(t, err)
	cb, err := m.ParseAccessToken(context.Background(), b.Token)
	require.NoError(t, err)

	ca.TokenID, cb.TokenID = "", ""
	ca.IssuedAt, cb.IssuedAt = time.Time{}, time.Time{}
	ca.ExpiresAt, cb.ExpiresAt = time.Time{}, time.Time{}
	assert.Equal(t, ca, cb)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := newTestJWT(t)
	issuer.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	signed, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Role: access.RoleUser, EnterpriseID: "e1",
	})
	require.NoError(t, err)

	_, err = newTestJWT(t).ParseAccessToken(context.Background(), signed.Token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestExpiryWithinSkewAccepted(t *testing.T) {
	issuer := newTestJWT(t)
	issuer.now = func() time.Time { return time.Now().Add(-24*time.Hour - 5*time.Second) }

	signed, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Role: access.RoleUser, EnterpriseID: "e1",
	})
	require.NoError(t, err)

	_, err = newTestJWT(t).ParseAccessToken(context.Background(), signed.Token)
	assert.NoError(t, err)
}

func TestNotYetValidTokenIsInvalidNotExpired(t *testing.T) {
	issuer := newTestJWT(t)
	issuer.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	signed, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Role: access.RoleUser, EnterpriseID: "e1",
	})
	require.NoError(t, err)

	_, err = newTestJWT(t).ParseAccessToken(context.Background(), signed.Token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
	assert.NotErrorIs(t, err, core.ErrTokenExpired)
}

func TestExpiredTokenIsNotReportedInvalid(t *testing.T) {
	issuer := newTestJWT(t)
	issuer.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	signed, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Role: access.RoleUser, EnterpriseID: "e1",
	})
	require.NoError(t, err)

	_, err = newTestJWT(t).ParseAccessToken(context.Background(), signed.Token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
	assert.NotErrorIs(t, err, core.ErrTokenInvalid)
}

func TestParseRejects(t *testing.T) {
	m := newTestJWT(t)

	other := testJWTConfig()
	other.Secret = "a-completely-different-secret-of-32+"
	foreign, err := NewJWTManager(other)
	require.NoError(t, err)

	wrongAud := testJWTConfig()
	wrongAud.Audience = "someone-else"
	audMgr, err := NewJWTManager(wrongAud)
	require.NoError(t, err)

	mint := func(mgr *JWTManager, c AccessTokenClaims) string {
		s, err := mgr.CreateAccessToken(c)
		require.NoError(t, err)
		return s.Token
	}
	valid := AccessTokenClaims{UserID: "u1", Role: access.RoleUser, EnterpriseID: "e1"}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", mint(foreign, valid)},
		{"wrong audience", mint(audMgr, valid)},
		{"tampered", mint(m, valid) + "x"},
		{"tenant role without enterprise", mint(m, AccessTokenClaims{UserID: "u1", Role: access.RoleUser})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ParseAccessToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, core.ErrTokenInvalid)
		})
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	_, err := newTestJWT(t).CreateAccessToken(AccessTokenClaims{UserID: "u1", Role: "owner"})
	assert.ErrorIs(t, err, access.ErrInvalidRole)
}
