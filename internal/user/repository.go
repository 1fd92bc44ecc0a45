// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/tenant"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, scope tenant.Scope, id string) (*User, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, scope tenant.Scope, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SoftDelete(ctx context.Context, scope tenant.Scope, id string) error
	List(ctx context.Context, scope tenant.Scope, params ListUsersParams) ([]User, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password_hash, name, role, status, enterprise_id,
		created_at, updated_at, deleted_at`

const accountSelect = `
		SELECT u.id, u.email, u.password_hash, u.name, u.role, u.status,
		       u.enterprise_id, u.created_at, u.updated_at, u.deleted_at,
		       e.name AS enterprise_name, e.status AS enterprise_status,
		       e.trial_end_date
		FROM users u
		LEFT JOIN enterprises e ON e.id = u.enterprise_id`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, status, enterprise_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
		user.Status,
		user.EnterpriseID,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) (*User, error) {
	var f core.Filter
	f.Eq("id", id)
	f.IsNull("deleted_at")
	scope.Apply(&f, "enterprise_id")

	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE %s",
		userColumns,
		f.Where(),
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, f.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	return r.getAccount(ctx, "u.id", id)
}

func (r *repository) GetAccountByEmail(
	ctx context.Context,
	email string,
) (*Account, error) {
	return r.getAccount(ctx, "u.email", email)
}

func (r *repository) getAccount(
	ctx context.Context,
	column, value string,
) (*Account, error) {
	query := accountSelect + fmt.Sprintf(
		" WHERE %s = $1 AND u.deleted_at IS NULL",
		column,
	)

	var acct Account
	err := r.db.GetContext(ctx, &acct, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &acct, nil
}

func (r *repository) Update(
	ctx context.Context,
	scope tenant.Scope,
	user *User,
) error {
	var f core.Filter
	set := fmt.Sprintf(
		"name = %s, role = %s, status = %s",
		f.Bind(user.Name),
		f.Bind(user.Role),
		f.Bind(user.Status),
	)
	f.Eq("id", user.ID)
	f.IsNull("deleted_at")
	scope.Apply(&f, "enterprise_id")

	query := fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = NOW()
		WHERE %s
		RETURNING updated_at`, set, f.Where())

	err := r.db.GetContext(ctx, &user.UpdatedAt, query, f.Args()...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return expectAffected(result, "update password")
}

func (r *repository) SoftDelete(
	ctx context.Context,
	scope tenant.Scope,
	id string,
) error {
	var f core.Filter
	f.Eq("id", id)
	f.IsNull("deleted_at")
	scope.Apply(&f, "enterprise_id")

	query := fmt.Sprintf(`
		UPDATE users
		SET deleted_at = NOW(), status = 'inactive', updated_at = NOW()
		WHERE %s`, f.Where())

	result, err := r.db.ExecContext(ctx, query, f.Args()...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return expectAffected(result, "delete user")
}

func (r *repository) List(
	ctx context.Context,
	scope tenant.Scope,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var f core.Filter
	f.IsNull("deleted_at")
	scope.Apply(&f, "enterprise_id")
	f.Search(params.Search, "email", "name")

	if params.Role != "" {
		f.Eq("role", params.Role)
	}
	if params.Status != "" {
		f.Eq("status", params.Status)
	}
	if params.EnterpriseID != "" {
		f.Eq("enterprise_id", params.EnterpriseID)
	}

	countQuery := "SELECT COUNT(*) FROM users WHERE " + f.Where()

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, f.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	next := f.Next()
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, f.Where(), next, next+1)

	args := append(f.Args(), params.PageSize, params.Offset())

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func expectAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
