// AngelaMos | 2026
// service.go

package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
	"github.com/bhashai/gateway/internal/voiceagent"
)

// AgentLookup resolves a voice agent through the caller's scope.
type AgentLookup interface {
	Get(ctx context.Context, scope tenant.Scope, id string) (*voiceagent.VoiceAgent, error)
}

type Service struct {
	repo   Repository
	agents AgentLookup
}

func NewService(repo Repository, agents AgentLookup) *Service {
	return &Service{repo: repo, agents: agents}
}

func (s *Service) List(
	ctx context.Context,
	scope tenant.Scope,
	params ListContactsParams,
) ([]Contact, int, error) {
	if !scope.Can(access.ReadContacts) {
		return nil, 0, fmt.Errorf("list contacts: %w", core.ErrForbidden)
	}
	return s.repo.List(ctx, scope, params)
}

// ListForAgent 404s when the agent is not visible, rather than returning an
// empty page that would confirm the agent exists.
func (s *Service) ListForAgent(
	ctx context.Context,
	scope tenant.Scope,
	agentID string,
	params ListContactsParams,
) ([]Contact, int, error) {
	if !scope.Can(access.ReadContacts) {
		return nil, 0, fmt.Errorf("list contacts: %w", core.ErrForbidden)
	}

	if _, err := s.agents.Get(ctx, scope, agentID); err != nil {
		return nil, 0, err
	}

	params.VoiceAgentID = agentID
	return s.repo.List(ctx, scope, params)
}

func (s *Service) Get(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*Contact, error) {
	if !scope.Can(access.ReadContacts) {
		return nil, fmt.Errorf("get contact: %w", core.ErrForbidden)
	}
	return s.repo.GetByID(ctx, scope, id)
}

func (s *Service) Create(
	ctx context.Context,
	scope tenant.Scope,
	agentID string,
	req CreateContactRequest,
) (*Contact, error) {
	if !scope.Can(access.WriteContacts) {
		return nil, fmt.Errorf("create contact: %w", core.ErrForbidden)
	}

	agent, err := s.agents.Get(ctx, scope, agentID)
	if err != nil {
		return nil, err
	}

	phone := NormalizePhone(req.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is invalid", core.ErrInvalidInput)
	}

	c := &Contact{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Phone:        phone,
		Email:        req.Email,
		Status:       req.Status,
		Notes:        req.Notes,
		VoiceAgentID: agent.ID,
		EnterpriseID: agent.EnterpriseID,
	}
	if c.Status == "" {
		c.Status = StatusActive
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Update(
	ctx context.Context,
	scope tenant.Scope,
	id string,
	req UpdateContactRequest,
) (*Contact, error) {
	if !scope.Can(access.WriteContacts) {
		return nil, fmt.Errorf("update contact: %w", core.ErrForbidden)
	}

	c, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		phone := NormalizePhone(*req.Phone)
		if phone == "" {
			return nil, fmt.Errorf("%w: phone is invalid", core.ErrInvalidInput)
		}
		c.Phone = phone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	if req.Notes != nil {
		c.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, scope, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	if !scope.Can(access.WriteContacts) {
		return fmt.Errorf("delete contact: %w", core.ErrForbidden)
	}
	return s.repo.Delete(ctx, scope, id)
}

// NormalizePhone strips formatting so the per-agent uniqueness check sees
// "+91 98765-43210" and "+919876543210" as the same number. It returns ""
// when anything other than digits remains.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return ""
		}
	}

	out := b.String()
	if len(strings.TrimPrefix(out, "+")) < 5 {
		return ""
	}
	return out
}
