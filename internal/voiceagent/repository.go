// AngelaMos | 2026
// repository.go

package voiceagent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
)

type Repository interface {
	Create(ctx context.Context, a *VoiceAgent) error
	GetByID(ctx context.Context, scope tenant.Scope, id string) (*VoiceAgent, error)
	Update(ctx context.Context, scope tenant.Scope, a *VoiceAgent) error
	Delete(ctx context.Context, scope tenant.Scope, id string) error
	List(ctx context.Context, scope tenant.Scope, params ListVoiceAgentsParams) ([]VoiceAgent, int, error)
	LockQuota(ctx context.Context, enterpriseID string) (*EnterpriseQuota, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const agentColumns = `id, title, description, category, status, configuration,
		enterprise_id, created_by, created_at, updated_at`

func (r *repository) Create(ctx context.Context, a *VoiceAgent) error {
	query := `
		INSERT INTO voice_agents
			(id, title, description, category, status, configuration, enterprise_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, a, query,
		a.ID,
		a.Title,
		a.Description,
		a.Category,
		a.Status,
		a.Configuration,
		a.EnterpriseID,
		a.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create voice agent: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*VoiceAgent, error) {
	var f core.Filter
	f.Eq("id", id)
	scope.Apply(&f, "enterprise_id")

	query := fmt.Sprintf(
		"SELECT %s FROM voice_agents WHERE %s",
		agentColumns,
		f.Where(),
	)

	var a VoiceAgent
	err := r.db.GetContext(ctx, &a, query, f.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get voice agent: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get voice agent: %w", err)
	}

	return &a, nil
}

func (r *repository) Update(
	ctx context.Context,
	scope tenant.Scope,
	a *VoiceAgent,
) error {
	var f core.Filter
	set := fmt.Sprintf(
		"title = %s, description = %s, category = %s, status = %s, configuration = %s",
		f.Bind(a.Title),
		f.Bind(a.Description),
		f.Bind(a.Category),
		f.Bind(a.Status),
		f.Bind(a.Configuration),
	)
	f.Eq("id", a.ID)
	scope.Apply(&f, "enterprise_id")

	query := fmt.Sprintf(`
		UPDATE voice_agents
		SET %s, updated_at = NOW()
		WHERE %s
		RETURNING updated_at`, set, f.Where())

	err := r.db.GetContext(ctx, &a.UpdatedAt, query, f.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update voice agent: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update voice agent: %w", err)
	}

	return nil
}

// Delete removes the agent. Its contacts go with it through the foreign key.
func (r *repository) Delete(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) error {
	var f core.Filter
	f.Eq("id", id)
	scope.Apply(&f, "enterprise_id")

	result, err := r.db.ExecContext(ctx, "DELETE FROM voice_agents WHERE "+f.Where(), f.Args()...)
	if err != nil {
		return fmt.Errorf("delete voice agent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete voice agent: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete voice agent: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	scope tenant.Scope,
	params ListVoiceAgentsParams,
) ([]VoiceAgent, int, error) {
	params.Normalize()

	var f core.Filter
	scope.Apply(&f, "enterprise_id")
	f.Search(params.Search, "title", "description")

	if params.Status != "" {
		f.Eq("status", params.Status)
	}
	if params.Category != "" {
		f.Eq("category", params.Category)
	}
	if params.EnterpriseID != "" {
		f.Eq("enterprise_id", params.EnterpriseID)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM voice_agents WHERE " + f.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, f.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count voice agents: %w", err)
	}

	next := f.Next()
	query := fmt.Sprintf(`
		SELECT %s
		FROM voice_agents
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		agentColumns, f.Where(), next, next+1)

	args := append(f.Args(), params.PageSize, params.Offset())

	agents := []VoiceAgent{}
	if err := r.db.SelectContext(ctx, &agents, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list voice agents: %w", err)
	}

	return agents, total, nil
}

// LockQuota row-locks the enterprise so concurrent creates are counted one
// at a time. Only meaningful inside a transaction.
func (r *repository) LockQuota(
	ctx context.Context,
	enterpriseID string,
) (*EnterpriseQuota, error) {
	query := `
		SELECT e.status, e.trial_end_date,
		       (SELECT COUNT(*) FROM voice_agents v WHERE v.enterprise_id = e.id) AS agents
		FROM enterprises e
		WHERE e.id = $1
		FOR UPDATE OF e`

	var q EnterpriseQuota
	err := r.db.GetContext(ctx, &q, query, enterpriseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock enterprise: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock enterprise: %w", err)
	}

	return &q, nil
}
