// AngelaMos | 2026
// service.go

package voiceagent

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
)

const enterpriseStatusInactive = "inactive"

// TrialLimits caps what an enterprise on a free trial may create.
type TrialLimits struct {
	MaxAgents int
	Languages []string
}

func (l TrialLimits) allowsLanguage(lang string) bool {
	if len(l.Languages) == 0 {
		return true
	}
	for _, allowed := range l.Languages {
		if strings.EqualFold(allowed, lang) {
			return true
		}
	}
	return false
}

type Service struct {
	repo   Repository
	inTx   core.TxRunner
	limits TrialLimits
	now    func() time.Time
}

func NewService(repo Repository, inTx core.TxRunner, limits TrialLimits) *Service {
	return &Service{
		repo:   repo,
		inTx:   inTx,
		limits: limits,
		now:    time.Now,
	}
}

func (s *Service) List(
	ctx context.Context,
	scope tenant.Scope,
	params ListVoiceAgentsParams,
) ([]VoiceAgent, int, error) {
	if !scope.Can(access.ReadVoiceAgents) {
		return nil, 0, fmt.Errorf("list voice agents: %w", core.ErrForbidden)
	}
	return s.repo.List(ctx, scope, params)
}

func (s *Service) Get(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*VoiceAgent, error) {
	if !scope.Can(access.ReadVoiceAgents) {
		return nil, fmt.Errorf("get voice agent: %w", core.ErrForbidden)
	}
	return s.repo.GetByID(ctx, scope, id)
}

// Create stamps the caller's enterprise on the agent and enforces trial
// limits under a row lock on that enterprise.
func (s *Service) Create(
	ctx context.Context,
	scope tenant.Scope,
	req CreateVoiceAgentRequest,
) (agent *VoiceAgent, err error) {
	ctx, span := core.StartSpan(ctx, "voiceagent.Create")
	defer func() { core.EndSpan(span, err) }()

	if !scope.Can(access.WriteVoiceAgents) {
		return nil, fmt.Errorf("create voice agent: %w", core.ErrForbidden)
	}

	enterpriseID, err := scope.Stamp(req.EnterpriseID)
	if err != nil {
		return nil, err
	}

	agent = &VoiceAgent{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Category:      strings.TrimSpace(req.Category),
		Status:        req.Status,
		Configuration: req.Configuration,
		EnterpriseID:  enterpriseID,
		CreatedBy:     &scope.UserID,
	}
	if agent.Status == "" {
		agent.Status = StatusActive
	}

	err = s.inTx(ctx, func(tx core.DBTX) error {
		repo := NewRepository(tx)

		quota, err := repo.LockQuota(ctx, enterpriseID)
		if err != nil {
			return err
		}
		if err := s.checkQuota(quota, agent); err != nil {
			return err
		}

		return repo.Create(ctx, agent)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("voice agent created",
		"agent_id", agent.ID,
		"enterprise_id", agent.EnterpriseID,
		"user_id", scope.UserID,
	)
	return agent, nil
}

func (s *Service) checkQuota(q *EnterpriseQuota, agent *VoiceAgent) error {
	if q.Status == enterpriseStatusInactive {
		return core.ForbiddenError("enterprise is inactive")
	}

	trial := auth.NewTrialStatus(q.Status, q.TrialEndDate, s.now())
	if !trial.IsTrial {
		return nil
	}

	if trial.Expired {
		return core.QuotaError("trial has expired")
	}
	if s.limits.MaxAgents > 0 && q.Agents >= s.limits.MaxAgents {
		return core.QuotaError(fmt.Sprintf(
			"trial enterprises are limited to %d voice agents",
			s.limits.MaxAgents,
		))
	}
	if err := s.checkLanguage(agent.Configuration.Language); err != nil {
		return err
	}

	agent.Status = StatusTrial
	return nil
}

func (s *Service) checkLanguage(lang string) error {
	if s.limits.allowsLanguage(lang) {
		return nil
	}
	return core.QuotaError(fmt.Sprintf(
		"trial voice agents must use one of: %s",
		strings.Join(s.limits.Languages, ", "),
	))
}

func (s *Service) Update(
	ctx context.Context,
	scope tenant.Scope,
	id string,
	req UpdateVoiceAgentRequest,
) (*VoiceAgent, error) {
	if !scope.Can(access.WriteVoiceAgents) {
		return nil, fmt.Errorf("update voice agent: %w", core.ErrForbidden)
	}

	agent, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		agent.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		agent.Description = req.Description
	}
	if req.Category != nil {
		agent.Category = strings.TrimSpace(*req.Category)
	}
	if req.Status != nil && agent.Status != StatusTrial {
		agent.Status = *req.Status
	}
	if req.Configuration == nil {
		if err := s.repo.Update(ctx, scope, agent); err != nil {
			return nil, err
		}
		return agent, nil
	}

	agent.Configuration = *req.Configuration

	// Languages follow the enterprise's current trial status, not the agent's.
	err = s.inTx(ctx, func(tx core.DBTX) error {
		repo := NewRepository(tx)

		quota, err := repo.LockQuota(ctx, agent.EnterpriseID)
		if err != nil {
			return err
		}
		trial := auth.NewTrialStatus(quota.Status, quota.TrialEndDate, s.now())
		if trial.IsTrial {
			if err := s.checkLanguage(agent.Configuration.Language); err != nil {
				return err
			}
		}

		return repo.Update(ctx, scope, agent)
	})
	if err != nil {
		return nil, err
	}

	return agent, nil
}

func (s *Service) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	if !scope.Can(access.WriteVoiceAgents) {
		return fmt.Errorf("delete voice agent: %w", core.ErrForbidden)
	}
	return s.repo.Delete(ctx, scope, id)
}
