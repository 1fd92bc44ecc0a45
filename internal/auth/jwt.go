// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/config"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/middleware"
)

const (
	claimRole         = "role"
	claimEnterpriseID = "enterprise_id"
	claimTier         = "tier"

	maxClockSkew = 60 * time.Second
)

// JWTManager signs and verifies HS256 access tokens with a shared secret.
type JWTManager struct {
	secret []byte
	config config.JWTConfig
	now    func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 bytes")
	}
	if cfg.ClockSkew < 0 || cfg.ClockSkew > maxClockSkew {
		return nil, fmt.Errorf("jwt clock skew %s outside [0, %s]", cfg.ClockSkew, maxClockSkew)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("jwt token ttl must be positive")
	}

	return &JWTManager{
		secret: []byte(cfg.Secret),
		config: cfg,
		now:    time.Now,
	}, nil
}

// AccessTokenClaims is the identity a token is minted for. Everything else
// in the token is derived from the clock.
type AccessTokenClaims struct {
	UserID       string
	Role         access.Role
	EnterpriseID string
	Tier         string
}

type SignedToken struct {
	Token     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (m *JWTManager) TTL() time.Duration {
	return m.config.TokenTTL
}

func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (*SignedToken, error) {
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("create token: %w", access.ErrInvalidRole)
	}

	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(m.config.TokenTTL)
	jti := uuid.NewString()

	builder := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimRole, claims.Role.String()).
		Claim(claimTier, claims.Tier)

	if claims.EnterpriseID != "" {
		builder = builder.Claim(claimEnterpriseID, claims.EnterpriseID)
	}

	token, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &SignedToken{
		Token:     string(signed),
		TokenID:   jti,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseAccessToken checks signature, issuer, audience and the time claims
// within the configured skew. It does not consult the denylist.
func (m *JWTManager) ParseAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithAcceptableSkew(m.config.ClockSkew),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("verify token: missing subject: %w", core.ErrTokenInvalid)
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, fmt.Errorf("verify token: missing jti: %w", core.ErrTokenInvalid)
	}

	var roleStr string
	if err := token.Get(claimRole, &roleStr); err != nil {
		return nil, fmt.Errorf("verify token: missing role claim: %w", core.ErrTokenInvalid)
	}

	role, err := access.ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w: %w", core.ErrTokenInvalid, err)
	}

	var enterpriseID string
	if token.Has(claimEnterpriseID) {
		if err := token.Get(claimEnterpriseID, &enterpriseID); err != nil {
			return nil, fmt.Errorf("verify token: bad enterprise_id claim: %w", core.ErrTokenInvalid)
		}
	}

	if !role.IsSuperAdmin() && enterpriseID == "" {
		return nil, fmt.Errorf(
			"verify token: tenant token without enterprise: %w",
			core.ErrTokenInvalid,
		)
	}

	var tier string
	if token.Has(claimTier) {
		_ = token.Get(claimTier, &tier) //nolint:errcheck // tier is advisory
	}

	issuedAt, _ := token.IssuedAt()
	expiresAt, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		TokenID:      jti,
		UserID:       subject,
		Role:         role,
		EnterpriseID: enterpriseID,
		Tier:         tier,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
	}, nil
}

func isTokenExpiredError(err error) bool {
	return errors.Is(err, jwt.TokenExpiredError())
}
