// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/auth"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
)

type Service struct {
	repo   Repository
	hasher *core.Hasher
}

func NewService(repo Repository, hasher *core.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	acct, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(acct), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	acct, err := s.repo.GetAccountByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(acct), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, scope tenant.Scope) (*User, error) {
	if scope.UserID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, scope, scope.UserID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	scope tenant.Scope,
	req UpdateMeRequest,
) (*User, error) {
	user, err := s.GetMe(ctx, scope)
	if err != nil {
		return nil, err
	}

	if req.NewPassword != "" {
		valid, err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("verify password: %w", err)
		}
		if !valid {
			return nil, core.UnauthorizedError("current password is incorrect")
		}

		hash, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
		if err := s.repo.Update(ctx, scope, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *Service) DeleteMe(ctx context.Context, scope tenant.Scope) error {
	if scope.UserID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	return s.repo.SoftDelete(ctx, scope, scope.UserID)
}

func (s *Service) ListUsers(
	ctx context.Context,
	scope tenant.Scope,
	params ListUsersParams,
) ([]User, int, error) {
	if !scope.Can(access.ManageTenantUsers) {
		return nil, 0, fmt.Errorf("list users: %w", core.ErrForbidden)
	}

	return s.repo.List(ctx, scope, params)
}

// GetUser lets anyone read themselves and user managers read their tenant.
func (s *Service) GetUser(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*User, error) {
	if id == scope.UserID {
		return s.GetMe(ctx, scope)
	}

	if !scope.Can(access.ManageTenantUsers) {
		return nil, fmt.Errorf("get user: %w", core.ErrForbidden)
	}

	return s.repo.GetByID(ctx, scope, id)
}

func (s *Service) CreateUser(
	ctx context.Context,
	scope tenant.Scope,
	req CreateUserRequest,
) (*User, error) {
	if !scope.Can(access.ManageTenantUsers) {
		return nil, fmt.Errorf("create user: %w", core.ErrForbidden)
	}

	role := req.Role
	if role == "" {
		role = access.RoleUser
	}
	if err := checkGrant(scope, role); err != nil {
		return nil, err
	}

	var enterpriseID *string
	if !role.IsSuperAdmin() {
		id, err := scope.Stamp(req.EnterpriseID)
		if err != nil {
			return nil, err
		}
		enterpriseID = &id
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		Status:       StatusActive,
		EnterpriseID: enterpriseID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUser(
	ctx context.Context,
	scope tenant.Scope,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	if id != scope.UserID && !scope.Can(access.ManageTenantUsers) {
		return nil, fmt.Errorf("update user: %w", core.ErrForbidden)
	}

	user, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Status != nil {
		if id == scope.UserID {
			return nil, fmt.Errorf("cannot change own status: %w", core.ErrForbidden)
		}
		if !scope.Bypass() && user.Role != access.RoleUser {
			return nil, fmt.Errorf("cannot change admin status: %w", core.ErrForbidden)
		}
		user.Status = *req.Status
	}

	if err := s.repo.Update(ctx, scope, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	scope tenant.Scope,
	id string,
	role access.Role,
) (*User, error) {
	if !scope.Can(access.ManageTenantUsers) {
		return nil, fmt.Errorf("update role: %w", core.ErrForbidden)
	}
	if id == scope.UserID {
		return nil, fmt.Errorf("cannot change own role: %w", core.ErrForbidden)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("update role: %w", core.ErrInvalidInput)
	}
	if err := checkGrant(scope, role); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if user.Role.IsSuperAdmin() && !scope.Bypass() {
		return nil, fmt.Errorf("update role: %w", core.ErrForbidden)
	}

	if !role.IsSuperAdmin() && user.EnterpriseID == nil {
		return nil, fmt.Errorf(
			"update role: %s requires an enterprise: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user.Role = role

	if err := s.repo.Update(ctx, scope, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) DeleteUser(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) error {
	if id == scope.UserID {
		return s.DeleteMe(ctx, scope)
	}

	if !scope.Can(access.ManageTenantUsers) {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}

	if !scope.Bypass() && target.Role != access.RoleUser {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return s.repo.SoftDelete(ctx, scope, id)
}

// checkGrant stops tenant admins from minting super admins.
func checkGrant(scope tenant.Scope, role access.Role) error {
	if role.IsSuperAdmin() && !scope.Can(access.GrantSuperAdmin) {
		return fmt.Errorf("grant %s: %w", role, core.ErrForbidden)
	}
	return nil
}

func toUserInfo(a *Account) *auth.UserInfo {
	return &auth.UserInfo{
		ID:               a.ID,
		Email:            a.Email,
		Name:             a.Name,
		PasswordHash:     a.PasswordHash,
		Role:             a.Role,
		Status:           a.Status,
		EnterpriseID:     a.EnterpriseID,
		EnterpriseName:   a.EnterpriseName,
		EnterpriseStatus: a.EnterpriseStatus,
		TrialEndDate:     a.TrialEndDate,
	}
}

var _ auth.UserProvider = (*Service)(nil)
