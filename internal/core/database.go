// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/bhashai/gateway/internal/config"
)

type Database struct {
	DB           *sqlx.DB
	queryTimeout time.Duration
}

func NewDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
) (*Database, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", ClassifyStoreError(err))
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(jitteredDuration(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() //nolint:errcheck // cleanup on connection failure
		return nil, fmt.Errorf("ping database: %w", ClassifyStoreError(err))
	}

	return &Database{DB: db, queryTimeout: cfg.QueryTimeout}, nil
}

func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", ClassifyStoreError(err))
	}

	return nil
}

func (d *Database) Stats() sql.DBStats {
	return d.DB.Stats()
}

// Store returns the pool wrapped with the configured per-query deadline.
func (d *Database) Store() DBTX {
	return Bounded(d.DB, d.queryTimeout)
}

// InTx runs fn inside a transaction on the bounded store.
func (d *Database) InTx(ctx context.Context, fn func(tx DBTX) error) error {
	return InTx(ctx, d.DB, func(tx *sqlx.Tx) error {
		return fn(Bounded(tx, d.queryTimeout))
	})
}

// DBTX is the query surface repositories depend on. Both *sqlx.DB and
// *sqlx.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(
		ctx context.Context,
		dest any,
		query string,
		args ...any,
	) error
}

// TxRunner executes fn within a single database transaction.
type TxRunner func(ctx context.Context, fn func(tx DBTX) error) error

type boundedDB struct {
	db      DBTX
	timeout time.Duration
}

// Bounded applies a deadline to every call and classifies the resulting
// errors so timeouts surface as ErrTimeout instead of hanging.
func Bounded(db DBTX, timeout time.Duration) DBTX {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &boundedDB{db: db, timeout: timeout}
}

func (b *boundedDB) ExecContext(
	ctx context.Context,
	query string,
	args ...any,
) (sql.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	res, err := b.db.ExecContext(ctx, query, args...)
	return res, classifyBounded(ctx, err)
}

func (b *boundedDB) GetContext(
	ctx context.Context,
	dest any,
	query string,
	args ...any,
) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classifyBounded(ctx, b.db.GetContext(ctx, dest, query, args...))
}

func (b *boundedDB) SelectContext(
	ctx context.Context,
	dest any,
	query string,
	args ...any,
) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classifyBounded(ctx, b.db.SelectContext(ctx, dest, query, args...))
}

// classifyBounded also covers drivers that report a cancelled query with
// their own error value instead of the context's.
func classifyBounded(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return ClassifyStoreError(err)
}

func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", ClassifyStoreError(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback() //nolint:errcheck // best-effort rollback on panic
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", ClassifyStoreError(err))
	}

	return nil
}

func jitteredDuration(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	//nolint:gosec // G404: non-security-sensitive jitter for connection pool
	jitter := time.Duration(rand.Int64N(int64(base/7) + 1))
	return base + jitter
}
