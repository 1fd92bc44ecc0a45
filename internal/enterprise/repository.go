// AngelaMos | 2026
// repository.go

package enterprise

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
)

type Repository interface {
	Create(ctx context.Context, e *Enterprise) error
	GetByID(ctx context.Context, scope tenant.Scope, id string) (*Enterprise, error)
	Update(ctx context.Context, scope tenant.Scope, e *Enterprise) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, scope tenant.Scope, params ListEnterprisesParams) ([]Enterprise, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const enterpriseColumns = `id, name, description, type, contact_email, status,
		trial_end_date, created_at, updated_at`

func (r *repository) Create(ctx context.Context, e *Enterprise) error {
	query := `
		INSERT INTO enterprises (id, name, description, type, contact_email, status, trial_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, e, query,
		e.ID,
		e.Name,
		e.Description,
		e.Type,
		e.ContactEmail,
		e.Status,
		e.TrialEndDate,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create enterprise: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create enterprise: %w", err)
	}

	return nil
}

// GetByID scopes on the primary key itself: a tenant can only ever see the
// enterprise it belongs to.
func (r *repository) GetByID(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*Enterprise, error) {
	var f core.Filter
	f.Eq("id", id)
	scope.Apply(&f, "id")

	query := fmt.Sprintf(
		"SELECT %s FROM enterprises WHERE %s",
		enterpriseColumns,
		f.Where(),
	)

	var e Enterprise
	err := r.db.GetContext(ctx, &e, query, f.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get enterprise: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get enterprise: %w", err)
	}

	return &e, nil
}

func (r *repository) Update(
	ctx context.Context,
	scope tenant.Scope,
	e *Enterprise,
) error {
	var f core.Filter
	set := fmt.Sprintf(
		"name = %s, description = %s, type = %s, contact_email = %s, status = %s, trial_end_date = %s",
		f.Bind(e.Name),
		f.Bind(e.Description),
		f.Bind(e.Type),
		f.Bind(e.ContactEmail),
		f.Bind(e.Status),
		f.Bind(e.TrialEndDate),
	)
	f.Eq("id", e.ID)
	scope.Apply(&f, "id")

	query := fmt.Sprintf(`
		UPDATE enterprises
		SET %s, updated_at = NOW()
		WHERE %s
		RETURNING updated_at`, set, f.Where())

	err := r.db.GetContext(ctx, &e.UpdatedAt, query, f.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update enterprise: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update enterprise: %w", err)
	}

	return nil
}

// Deactivate is the enterprise soft delete. Rows owned by the enterprise are
// kept; its users can no longer log in.
func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE enterprises
		SET status = 'inactive', updated_at = NOW()
		WHERE id = $1 AND status <> 'inactive'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate enterprise: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate enterprise: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("deactivate enterprise: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	scope tenant.Scope,
	params ListEnterprisesParams,
) ([]Enterprise, int, error) {
	params.Normalize()

	var f core.Filter
	scope.Apply(&f, "id")
	f.Search(params.Search, "name", "contact_email")

	if params.Status != "" {
		f.Eq("status", params.Status)
	}
	if params.Type != "" {
		f.Eq("type", params.Type)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM enterprises WHERE " + f.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, f.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count enterprises: %w", err)
	}

	next := f.Next()
	query := fmt.Sprintf(`
		SELECT %s
		FROM enterprises
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		enterpriseColumns, f.Where(), next, next+1)

	args := append(f.Args(), params.PageSize, params.Offset())

	list := []Enterprise{}
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enterprises: %w", err)
	}

	return list, total, nil
}
