// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/middleware"
	"github.com/bhashai/gateway/internal/tenant"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*UserInfo, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*UserInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*UserInfo, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*UserInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) UpdatePassword(ctx context.Context, userID, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

type mockOnboarder struct {
	mock.Mock
}

func (m *mockOnboarder) CreateEnterpriseWithOwner(
	ctx context.Context,
	p SignupParams,
) (*UserInfo, error) {
	args := m.Called(ctx, p)
	if u := args.Get(0); u != nil {
		return u.(*UserInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

var testHasher = func() *core.Hasher {
	h, err := core.NewHasher(core.MinBcryptCost)
	if err != nil {
		panic(err)
	}
	return h
}()

type fixture struct {
	svc   *Service
	users *mockUsers
	onb   *mockOnboarder
	redis *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := &mockUsers{}
	onb := &mockOnboarder{}

	denylist := NewDenylist(rdb, testJWTConfig().ClockSkew)

	return &fixture{
		svc:   NewService(newTestJWT(t), users, onb, denylist, testHasher),
		users: users,
		onb:   onb,
		redis: mr,
	}
}

func strPtr(s string) *string { return &s }

func storedUser(t *testing.T, role access.Role, enterpriseID *string, password string) *UserInfo {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)

	u := &UserInfo{
		ID:           "u-" + string(role),
		Email:        "alice@acme.test",
		Name:         "Alice",
		PasswordHash: hash,
		Role:         role,
		Status:       StatusActive,
		EnterpriseID: enterpriseID,
	}
	if enterpriseID != nil {
		u.EnterpriseStatus = strPtr("active")
	}
	return u
}

func TestLoginIssuesScopedToken(t *testing.T) {
	f := newFixture(t)
	user := storedUser(t, access.RoleUser, strPtr("E1"), "correct-horse")
	f.users.On("GetByEmail", mock.Anything, "alice@acme.test").Return(user, nil)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "  Alice@Acme.test ",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "/dashboard.html", resp.RedirectURL)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "E1", claims.EnterpriseID)
	assert.Equal(t, access.RoleUser, claims.Role)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, middleware.TierStandard, claims.Tier)
}

func TestLoginSuperAdmin(t *testing.T) {
	f := newFixture(t)
	user := storedUser(t, access.RoleSuperAdmin, nil, "platform-pass")
	user.Email = "super@platform.test"
	f.users.On("GetByEmail", mock.Anything, "super@platform.test").Return(user, nil)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email: "super@platform.test", Password: "platform-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "/superadmin-dashboard.html", resp.RedirectURL)
	assert.Nil(t, resp.User.EnterpriseID)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.Scope().Bypass())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)

	inactive := storedUser(t, access.RoleUser, strPtr("E1"), "pw-inactive")
	inactive.Status = StatusInactive

	f.users.On("GetByEmail", mock.Anything, "ghost@acme.test").
		Return(nil, fmt.Errorf("get user by email: %w", core.ErrNotFound))
	f.users.On("GetByEmail", mock.Anything, "alice@acme.test").
		Return(storedUser(t, access.RoleUser, strPtr("E1"), "right"), nil).Once()
	f.users.On("GetByEmail", mock.Anything, "alice@acme.test").
		Return(inactive, nil).Once()

	attempts := []LoginRequest{
		{Email: "ghost@acme.test", Password: "whatever"},
		{Email: "alice@acme.test", Password: "wrong"},
		{Email: "alice@acme.test", Password: "pw-inactive"},
	}

	for _, req := range attempts {
		_, err := f.svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, core.ErrInvalidCredentials, req.Email)
	}
}

func TestLoginTenantUserWithoutEnterprise(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByEmail", mock.Anything, "alice@acme.test").
		Return(storedUser(t, access.RoleAdmin, nil, "pw"), nil)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email: "alice@acme.test", Password: "pw",
	})
	assert.ErrorIs(t, err, core.ErrNoEnterprise)
}

func TestLoginStoreTimeoutPropagates(t *testing.T) {
	f := newFixture(t)
	f.users.On("GetByEmail", mock.Anything, "alice@acme.test").
		Return(nil, fmt.Errorf("get user by email: %w", core.ErrTimeout))

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email: "alice@acme.test", Password: "pw",
	})
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.NotErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestLoginTrialTier(t *testing.T) {
	f := newFixture(t)
	user := storedUser(t, access.RoleAdmin, strPtr("E1"), "pw")
	user.EnterpriseStatus = strPtr("trial")
	f.users.On("GetByEmail", mock.Anything, "alice@acme.test").Return(user, nil)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email: "alice@acme.test", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin-dashboard.html", resp.RedirectURL)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, middleware.TierTrial, claims.Tier)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	user := storedUser(t, access.RoleUser, strPtr("E1"), "pw")
	f.users.On("GetByEmail", mock.Anything, "alice@acme.test").Return(user, nil)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email: "alice@acme.test", Password: "pw",
	})
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccessToken(context.Background(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), claims))

	ttl := f.redis.TTL(denylistPrefix + claims.TokenID)
	assert.Greater(t, ttl, 23*time.Hour)

	_, err = f.svc.VerifyAccessToken(context.Background(), resp.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRevocationOutlivesExpiryBySkew(t *testing.T) {
	f := newFixture(t)
	start := time.Now()
	f.svc.jwt.now = func() time.Time { return start.Add(-24*time.Hour + 2*time.Second) }

	signed, err := f.svc.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Role: access.RoleUser, EnterpriseID: "E1",
	})
	require.NoError(t, err)

	f.svc.jwt.now = func() time.Time { return start }
	claims, err := f.svc.VerifyAccessToken(context.Background(), signed.Token)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(context.Background(), claims))

	ttl := f.redis.TTL(denylistPrefix + claims.TokenID)
	assert.Greater(t, ttl, 25*time.Second)

	f.redis.FastForward(5 * time.Second)
	f.svc.jwt.now = func() time.Time { return start.Add(5 * time.Second) }

	_, err = f.svc.VerifyAccessToken(context.Background(), signed.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestLogoutInsideSkewWindowRevokes(t *testing.T) {
	f := newFixture(t)
	start := time.Now()
	f.svc.jwt.now = func() time.Time { return start.Add(-24*time.Hour - 10*time.Second) }

	signed, err := f.svc.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Role: access.RoleUser, EnterpriseID: "E1",
	})
	require.NoError(t, err)

	f.svc.jwt.now = func() time.Time { return start }
	claims, err := f.svc.VerifyAccessToken(context.Background(), signed.Token)
	require.NoError(t, err, "expired 10s ago but within the 30s skew")

	require.NoError(t, f.svc.Logout(context.Background(), claims))
	assert.True(t, f.redis.Exists(denylistPrefix+claims.TokenID))

	_, err = f.svc.VerifyAccessToken(context.Background(), signed.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestVerifyFailsClosedWhenDenylistDown(t *testing.T) {
	f := newFixture(t)
	signed, err := f.svc.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Role: access.RoleUser, EnterpriseID: "E1",
	})
	require.NoError(t, err)

	f.redis.Close()

	_, err = f.svc.VerifyAccessToken(context.Background(), signed.Token)
	assert.ErrorIs(t, err, core.ErrUnavailable)
}

func TestSignup(t *testing.T) {
	f := newFixture(t)
	owner := &UserInfo{
		ID:               "owner-1",
		Email:            "owner@clinic.test",
		Name:             "Owner",
		Role:             access.RoleAdmin,
		Status:           StatusActive,
		EnterpriseID:     strPtr("E9"),
		EnterpriseStatus: strPtr("trial"),
	}

	f.onb.On("CreateEnterpriseWithOwner", mock.Anything, mock.MatchedBy(func(p SignupParams) bool {
		return p.OwnerEmail == "owner@clinic.test" &&
			p.OrganizationType == "other" &&
			p.PasswordHash != "" && p.PasswordHash != "supersecret"
	})).Return(owner, nil)

	resp, err := f.svc.Signup(context.Background(), SignupRequest{
		OrganizationName: "Sunrise Clinic",
		Name:             "Owner",
		Email:            "Owner@Clinic.test",
		Password:         "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin-dashboard.html", resp.RedirectURL)
	f.onb.AssertExpectations(t)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.onb.On("CreateEnterpriseWithOwner", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("create owner: %w", core.ErrDuplicateKey))

	_, err := f.svc.Signup(context.Background(), SignupRequest{
		OrganizationName: "Dup", Name: "D", Email: "dup@x.test", Password: "supersecret",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	end := time.Now().Add(36 * time.Hour)
	user := storedUser(t, access.RoleAdmin, strPtr("E1"), "pw")
	user.EnterpriseName = strPtr("Acme")
	user.EnterpriseStatus = strPtr("trial")
	user.TrialEndDate = &end
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	resp, err := f.svc.Profile(context.Background(), tenant.Scope{
		UserID: user.ID, Role: access.RoleAdmin, EnterpriseID: "E1",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Enterprise)
	assert.Equal(t, "Acme", resp.Enterprise.Name)
	require.NotNil(t, resp.Enterprise.Trial)
	assert.True(t, resp.Enterprise.Trial.IsTrial)
	assert.Equal(t, 2, resp.Enterprise.Trial.DaysRemaining)
	assert.Contains(t, resp.Permissions, "users:manage")
}

func TestNewTrialStatus(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(14 * 24 * time.Hour)

	assert.Equal(t, TrialStatus{}, NewTrialStatus("active", &future, now))

	expired := NewTrialStatus("trial", &past, now)
	assert.True(t, expired.Expired)
	assert.Zero(t, expired.DaysRemaining)

	fresh := NewTrialStatus("trial", &future, now)
	assert.False(t, fresh.Expired)
	assert.Equal(t, 14, fresh.DaysRemaining)
}
