// AngelaMos | 2026
// main.go

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bhashai/gateway/internal/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "bhashctl",
	Short:         "BhashAI gateway operator tool",
	Long:          "Schema migrations, sample data, super admin provisioning and deployment checks for the BhashAI gateway.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createSuperAdminCmd)
	rootCmd.AddCommand(healthcheckCmd)
	rootCmd.AddCommand(tokenCmd)
}

func loadConfig() (*config.Config, error) {
	path := configFile
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	return config.Load(path)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
