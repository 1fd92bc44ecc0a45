// AngelaMos | 2026
// migrate.go

package migrate

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bhashai/gateway/internal/core"
)

//go:embed sql/*.sql
var files embed.FS

// lockKey serializes concurrent migrators across replicas.
const lockKey = 7263011

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Load returns the embedded migrations ordered by version. File names have
// the form NNNN_name.sql.
func Load() ([]Migration, error) {
	return load(files, "sql")
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	seen := make(map[string]string, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), ".sql")
		version, name, ok := strings.Cut(base, "_")
		if !ok || version == "" {
			return nil, fmt.Errorf("migration %q: want NNNN_name.sql", entry.Name())
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration version %s used by %s and %s",
				version, prev, entry.Name())
		}
		seen[version] = entry.Name()

		body, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    name,
			SQL:     string(body),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

type Migrator struct {
	db         *sqlx.DB
	migrations []Migration
	logger     *slog.Logger
}

func New(db *sqlx.DB, logger *slog.Logger) (*Migrator, error) {
	migrations, err := Load()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Migrator{db: db, migrations: migrations, logger: logger}, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the versions it applied.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", core.ClassifyStoreError(err))
	}

	var applied []string
	for _, mig := range m.migrations {
		ran, err := m.apply(ctx, mig)
		if err != nil {
			return applied, err
		}
		if ran {
			applied = append(applied, mig.Version)
			m.logger.Info("migration applied", "version", mig.Version, "name", mig.Name)
		}
	}

	return applied, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) (bool, error) {
	ran := false

	err := core.InTx(ctx, m.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
			return fmt.Errorf("acquire migration lock: %w", err)
		}

		var done bool
		err := tx.GetContext(ctx, &done,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`,
			mig.Version,
		)
		if err != nil {
			return fmt.Errorf("check version: %w", err)
		}
		if done {
			return nil
		}

		if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`,
			mig.Version,
		); err != nil {
			return fmt.Errorf("record version: %w", err)
		}

		ran = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf(
			"migration %s_%s: %w",
			mig.Version,
			mig.Name,
			core.ClassifyStoreError(err),
		)
	}

	return ran, nil
}

type Status struct {
	Version string `json:"version"`
	Name    string `json:"name"`
	Applied bool   `json:"applied"`
}

// Status reports every known migration and whether it has been applied.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if _, err := m.db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", core.ClassifyStoreError(err))
	}

	var versions []string
	if err := m.db.SelectContext(ctx, &versions,
		`SELECT version FROM schema_migrations`,
	); err != nil {
		return nil, fmt.Errorf("list versions: %w", core.ClassifyStoreError(err))
	}

	done := make(map[string]bool, len(versions))
	for _, v := range versions {
		done[v] = true
	}

	out := make([]Status, 0, len(m.migrations))
	for _, mig := range m.migrations {
		out = append(out, Status{
			Version: mig.Version,
			Name:    mig.Name,
			Applied: done[mig.Version],
		})
	}

	return out, nil
}
