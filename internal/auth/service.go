// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/middleware"
	"github.com/bhashai/gateway/internal/tenant"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	enterpriseStatusTrial    = "trial"
	enterpriseStatusInactive = "inactive"
)

// UserInfo is the slice of a user row, joined with its enterprise, that the
// auth flows need.
type UserInfo struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     string
	Role             access.Role
	Status           string
	EnterpriseID     *string
	EnterpriseName   *string
	EnterpriseStatus *string
	TrialEndDate     *time.Time
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type SignupParams struct {
	OrganizationName string
	OrganizationType string
	OwnerName        string
	OwnerEmail       string
	PasswordHash     string
}

// Onboarder creates a trial enterprise together with its owner account.
type Onboarder interface {
	CreateEnterpriseWithOwner(ctx context.Context, p SignupParams) (*UserInfo, error)
}

type Service struct {
	jwt        *JWTManager
	users      UserProvider
	onboarding Onboarder
	denylist   Denylist
	hasher     *core.Hasher
	now        func() time.Time
}

func NewService(
	jwt *JWTManager,
	users UserProvider,
	onboarding Onboarder,
	denylist Denylist,
	hasher *core.Hasher,
) *Service {
	return &Service{
		jwt:        jwt,
		users:      users,
		onboarding: onboarding,
		denylist:   denylist,
		hasher:     hasher,
		now:        time.Now,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (resp *LoginResponse, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer func() { core.EndSpan(span, err) }()

	email := normalizeEmail(req.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // keeps unknown emails as slow as wrong passwords
			_, _, _ = s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	if user.Status != StatusActive {
		return nil, core.ErrInvalidCredentials
	}

	if err := checkTenantBinding(user); err != nil {
		return nil, err
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.String("user.role", user.Role.String()),
	)

	return s.issue(user)
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (resp *LoginResponse, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Signup")
	defer func() { core.EndSpan(span, err) }()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	orgType := req.OrganizationType
	if orgType == "" {
		orgType = "other"
	}

	user, err := s.onboarding.CreateEnterpriseWithOwner(ctx, SignupParams{
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		OrganizationType: orgType,
		OwnerName:        strings.TrimSpace(req.Name),
		OwnerEmail:       normalizeEmail(req.Email),
		PasswordHash:     hash,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		return nil, fmt.Errorf("create enterprise: %w", err)
	}

	return s.issue(user)
}

func (s *Service) Profile(
	ctx context.Context,
	scope tenant.Scope,
) (*ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, scope.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.UnauthorizedError("account no longer exists")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.Status != StatusActive {
		return nil, core.UnauthorizedError("account is inactive")
	}

	resp := &ProfileResponse{
		Success:     true,
		User:        toUserResponse(user),
		Permissions: access.PermissionsFor(user.Role).Names(),
		RedirectURL: access.LandingPage(user.Role),
	}

	if user.EnterpriseID != nil {
		ent := &Enterprise{ID: *user.EnterpriseID}
		if user.EnterpriseName != nil {
			ent.Name = *user.EnterpriseName
		}
		if user.EnterpriseStatus != nil {
			ent.Status = *user.EnterpriseStatus
			trial := NewTrialStatus(ent.Status, user.TrialEndDate, s.now())
			ent.Trial = &trial
		}
		resp.Enterprise = ent
	}

	return resp, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims == nil {
		return core.ErrUnauthorized
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}

	slog.Info("token revoked", "user_id", claims.UserID, "jti", claims.TokenID)
	return nil
}

// VerifyAccessToken is the middleware.TokenVerifier used on every protected
// request. A denylist outage fails the request rather than accepting the
// token.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) issue(user *UserInfo) (*LoginResponse, error) {
	claims := AccessTokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		Tier:   tierFor(user),
	}
	if user.EnterpriseID != nil {
		claims.EnterpriseID = *user.EnterpriseID
	}

	signed, err := s.jwt.CreateAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &LoginResponse{
		Success:     true,
		Token:       signed.Token,
		TokenType:   "Bearer",
		ExpiresAt:   signed.ExpiresAt,
		User:        toUserResponse(user),
		RedirectURL: access.LandingPage(user.Role),
	}, nil
}

func checkTenantBinding(user *UserInfo) error {
	if user.Role.IsSuperAdmin() {
		return nil
	}
	if user.EnterpriseID == nil || *user.EnterpriseID == "" {
		return core.ErrNoEnterprise
	}
	if user.EnterpriseStatus != nil && *user.EnterpriseStatus == enterpriseStatusInactive {
		return core.ForbiddenError("enterprise is inactive")
	}
	return nil
}

func tierFor(user *UserInfo) string {
	switch {
	case user.Role.IsSuperAdmin():
		return middleware.TierPlatform
	case user.EnterpriseStatus != nil && *user.EnterpriseStatus == enterpriseStatusTrial:
		return middleware.TierTrial
	default:
		return middleware.TierStandard
	}
}

// NewTrialStatus summarizes a trial for display. Non-trial enterprises get a
// zero value with IsTrial false.
func NewTrialStatus(status string, endDate *time.Time, now time.Time) TrialStatus {
	if status != enterpriseStatusTrial {
		return TrialStatus{}
	}

	ts := TrialStatus{IsTrial: true, EndDate: endDate}
	if endDate == nil {
		return ts
	}

	remaining := endDate.Sub(now)
	if remaining <= 0 {
		ts.Expired = true
		return ts
	}

	ts.DaysRemaining = int((remaining + 24*time.Hour - 1) / (24 * time.Hour))
	return ts
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		EnterpriseID: u.EnterpriseID,
		Status:       u.Status,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
