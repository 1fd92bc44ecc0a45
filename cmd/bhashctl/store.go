// AngelaMos | 2026
// store.go

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bhashai/gateway/internal/core"
	"github.com/bhashai/gateway/internal/migrate"
	"github.com/bhashai/gateway/internal/seed"
)

const minPasswordLength = 8

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits right after

		migrator, err := migrate.New(db.DB, slog.Default())
		if err != nil {
			return err
		}

		applied, err := migrator.Up(cmd.Context())
		if err != nil {
			return err
		}

		if len(applied) == 0 {
			fmt.Println("schema is up to date")
			return nil
		}
		fmt.Printf("applied %s\n", strings.Join(applied, ", "))
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits right after

		migrator, err := migrate.New(db.DB, slog.Default())
		if err != nil {
			return err
		}

		status, err := migrator.Status(cmd.Context())
		if err != nil {
			return err
		}

		for _, s := range status {
			mark := "pending"
			if s.Applied {
				mark = "applied"
			}
			fmt.Printf("%s_%s\t%s\n", s.Version, s.Name, mark)
		}
		return nil
	},
}

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample enterprises, users, voice agents and contacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := passwordFromFlagOrPrompt(seedPassword, "Sample account password: ")
		if err != nil {
			return err
		}

		seeder, db, err := openSeeder(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits right after

		res, err := seeder.Run(cmd.Context(), password)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

var (
	superEmail    string
	superName     string
	superPassword string
)

var createSuperAdminCmd = &cobra.Command{
	Use:   "create-superadmin",
	Short: "Provision a platform-wide super admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if superEmail == "" {
			return errors.New("--email is required")
		}

		password, err := passwordFromFlagOrPrompt(superPassword, "Password: ")
		if err != nil {
			return err
		}

		seeder, db, err := openSeeder(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() //nolint:errcheck // process exits right after

		u, err := seeder.CreateSuperAdmin(cmd.Context(), superEmail, superName, password)
		if err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return fmt.Errorf("an account with email %s already exists", superEmail)
			}
			return err
		}

		fmt.Printf("created super admin %s (%s)\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)

	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password for every sample login (prompted when empty)")

	createSuperAdminCmd.Flags().StringVar(&superEmail, "email", "", "login email")
	createSuperAdminCmd.Flags().StringVar(&superName, "name", "Platform Admin", "display name")
	createSuperAdminCmd.Flags().StringVar(&superPassword, "password", "", "password (prompted when empty)")
}

func openDatabase(ctx context.Context) (*core.Database, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return core.NewDatabase(ctx, cfg.Database)
}

func openSeeder(ctx context.Context) (*seed.Seeder, *core.Database, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	hasher, err := core.NewHasher(cfg.Security.BcryptCost)
	if err != nil {
		return nil, nil, err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return seed.New(db.Store(), db.InTx, hasher, slog.Default()), db, nil
}

func passwordFromFlagOrPrompt(flagValue, prompt string) (string, error) {
	password := flagValue
	if password == "" {
		fmt.Fprint(os.Stderr, prompt)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimSpace(string(raw))
	}

	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}
