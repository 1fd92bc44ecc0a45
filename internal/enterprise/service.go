// AngelaMos | 2026
// service.go

package enterprise

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/auth"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
	"github.com/bhashai/gateway/internal/user"
)

type Service struct {
	repo      Repository
	inTx      core.TxRunner
	trialDays int
	now       func() time.Time
}

func NewService(repo Repository, inTx core.TxRunner, trialDays int) *Service {
	return &Service{
		repo:      repo,
		inTx:      inTx,
		trialDays: trialDays,
		now:       time.Now,
	}
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) trialEnd() *time.Time {
	end := s.now().UTC().AddDate(0, 0, s.trialDays)
	return &end
}

func (s *Service) List(
	ctx context.Context,
	scope tenant.Scope,
	params ListEnterprisesParams,
) ([]Enterprise, int, error) {
	if !scope.Can(access.ReadOwnEnterprise) {
		return nil, 0, fmt.Errorf("list enterprises: %w", core.ErrForbidden)
	}
	return s.repo.List(ctx, scope, params)
}

func (s *Service) Get(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*Enterprise, error) {
	if !scope.Can(access.ReadOwnEnterprise) {
		return nil, fmt.Errorf("get enterprise: %w", core.ErrForbidden)
	}
	return s.repo.GetByID(ctx, scope, id)
}

func (s *Service) Create(
	ctx context.Context,
	scope tenant.Scope,
	req CreateEnterpriseRequest,
) (*Enterprise, error) {
	if !scope.Can(access.ManageEnterprises) {
		return nil, fmt.Errorf("create enterprise: %w", core.ErrForbidden)
	}

	e := &Enterprise{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Type:         req.Type,
		ContactEmail: lowerPtr(req.ContactEmail),
		Status:       req.Status,
	}
	if e.Type == "" {
		e.Type = TypeOther
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if e.Status == StatusTrial {
		e.TrialEndDate = s.trialEnd()
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	slog.Info("enterprise created", "enterprise_id", e.ID, "by", scope.UserID)
	return e, nil
}

// Update lets admins edit their own enterprise profile. Status and type are
// platform decisions reserved for super admins.
func (s *Service) Update(
	ctx context.Context,
	scope tenant.Scope,
	id string,
	req UpdateEnterpriseRequest,
) (*Enterprise, error) {
	if !scope.Can(access.UpdateOwnEnterprise) {
		return nil, fmt.Errorf("update enterprise: %w", core.ErrForbidden)
	}
	if (req.Status != nil || req.Type != nil) && !scope.Can(access.ManageEnterprises) {
		return nil, fmt.Errorf("update enterprise status: %w", core.ErrForbidden)
	}

	e, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.ContactEmail != nil {
		e.ContactEmail = lowerPtr(req.ContactEmail)
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.Status != nil && *req.Status != e.Status {
		switch {
		case *req.Status == StatusTrial && e.TrialEndDate == nil:
			e.TrialEndDate = s.trialEnd()
		case *req.Status == StatusActive:
			e.TrialEndDate = nil
		}
		e.Status = *req.Status
	}

	if err := s.repo.Update(ctx, scope, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	if !scope.Can(access.ManageEnterprises) {
		return fmt.Errorf("delete enterprise: %w", core.ErrForbidden)
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	slog.Info("enterprise deactivated", "enterprise_id", id, "by", scope.UserID)
	return nil
}

// CreateEnterpriseWithOwner is the self-service signup path: a trial
// enterprise and its admin are written in one transaction so a duplicate
// email leaves no orphan enterprise behind.
func (s *Service) CreateEnterpriseWithOwner(
	ctx context.Context,
	p auth.SignupParams,
) (*auth.UserInfo, error) {
	e := &Enterprise{
		ID:           uuid.NewString(),
		Name:         p.OrganizationName,
		Type:         p.OrganizationType,
		ContactEmail: &p.OwnerEmail,
		Status:       StatusTrial,
		TrialEndDate: s.trialEnd(),
	}
	owner := &user.User{
		ID:           uuid.NewString(),
		Email:        p.OwnerEmail,
		PasswordHash: p.PasswordHash,
		Name:         p.OwnerName,
		Role:         access.RoleAdmin,
		Status:       user.StatusActive,
		EnterpriseID: &e.ID,
	}

	err := s.inTx(ctx, func(tx core.DBTX) error {
		if err := NewRepository(tx).Create(ctx, e); err != nil {
			return err
		}
		return user.NewRepository(tx).Create(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("enterprise onboarded", "enterprise_id", e.ID, "owner_id", owner.ID)

	return &auth.UserInfo{
		ID:               owner.ID,
		Email:            owner.Email,
		Name:             owner.Name,
		PasswordHash:     owner.PasswordHash,
		Role:             owner.Role,
		Status:           owner.Status,
		EnterpriseID:     owner.EnterpriseID,
		EnterpriseName:   &e.Name,
		EnterpriseStatus: &e.Status,
		TrialEndDate:     e.TrialEndDate,
	}, nil
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}

var _ auth.Onboarder = (*Service)(nil)
