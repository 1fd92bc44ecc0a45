// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, scope tenant.Scope, id string) (*Contact, error)
	Update(ctx context.Context, scope tenant.Scope, c *Contact) error
	Delete(ctx context.Context, scope tenant.Scope, id string) error
	List(ctx context.Context, scope tenant.Scope, params ListContactsParams) ([]Contact, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const contactColumns = `id, name, phone, email, status, notes, voice_agent_id,
		enterprise_id, created_at, updated_at`

func (r *repository) Create(ctx context.Context, c *Contact) error {
	query := `
		INSERT INTO contacts
			(id, name, phone, email, status, notes, voice_agent_id, enterprise_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, c, query,
		c.ID,
		c.Name,
		c.Phone,
		c.Email,
		c.Status,
		c.Notes,
		c.VoiceAgentID,
		c.EnterpriseID,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create contact: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create contact: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*Contact, error) {
	var f core.Filter
	f.Eq("id", id)
	scope.Apply(&f, "enterprise_id")

	query := fmt.Sprintf(
		"SELECT %s FROM contacts WHERE %s",
		contactColumns,
		f.Where(),
	)

	var c Contact
	err := r.db.GetContext(ctx, &c, query, f.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get contact: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	return &c, nil
}

func (r *repository) Update(
	ctx context.Context,
	scope tenant.Scope,
	c *Contact,
) error {
	var f core.Filter
	set := fmt.Sprintf(
		"name = %s, phone = %s, email = %s, status = %s, notes = %s",
		f.Bind(c.Name),
		f.Bind(c.Phone),
		f.Bind(c.Email),
		f.Bind(c.Status),
		f.Bind(c.Notes),
	)
	f.Eq("id", c.ID)
	scope.Apply(&f, "enterprise_id")

	query := fmt.Sprintf(`
		UPDATE contacts
		SET %s, updated_at = NOW()
		WHERE %s
		RETURNING updated_at`, set, f.Where())

	err := r.db.GetContext(ctx, &c.UpdatedAt, query, f.Args()...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("update contact: %w", core.ErrNotFound)
	case core.IsDuplicateKey(err):
		return fmt.Errorf("update contact: %w", core.ErrDuplicateKey)
	case err != nil:
		return fmt.Errorf("update contact: %w", err)
	}

	return nil
}

func (r *repository) Delete(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) error {
	var f core.Filter
	f.Eq("id", id)
	scope.Apply(&f, "enterprise_id")

	result, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE "+f.Where(), f.Args()...)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete contact: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	scope tenant.Scope,
	params ListContactsParams,
) ([]Contact, int, error) {
	params.Normalize()

	var f core.Filter
	scope.Apply(&f, "enterprise_id")
	if params.VoiceAgentID != "" {
		f.Eq("voice_agent_id", params.VoiceAgentID)
	}
	if params.Status != "" {
		f.Eq("status", params.Status)
	}
	f.Search(params.Search, "name", "phone", "email")

	var total int
	countQuery := "SELECT COUNT(*) FROM contacts WHERE " + f.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, f.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	next := f.Next()
	query := fmt.Sprintf(`
		SELECT %s
		FROM contacts
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		contactColumns, f.Where(), next, next+1)

	args := append(f.Args(), params.PageSize, params.Offset())

	contacts := []Contact{}
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}

	return contacts, total, nil
}
