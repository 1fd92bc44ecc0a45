// AngelaMos | 2026
// probe.go

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bhashai/gateway/internal/auth"
)

var (
	healthURL     string
	healthTimeout time.Duration
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe a deployment's readiness endpoint",
	Long:  "Calls <url>/readyz and exits non-zero unless the gateway reports ready.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		body, err := checkReady(ctx, http.DefaultClient, healthURL)
		if body != "" {
			fmt.Println(body)
		}
		return err
	},
}

// checkReady returns the response body so failures can be diagnosed from
// the per-dependency report.
func checkReady(ctx context.Context, client *http.Client, baseURL string) (string, error) {
	url := strings.TrimRight(baseURL, "/") + "/readyz"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return string(raw), fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return string(raw), nil
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Work with access tokens",
}

var tokenInspectCmd = &cobra.Command{
	Use:   "inspect [token]",
	Short: "Verify a token with the configured secret and print its claims",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := tokenArg(args)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		jwt, err := auth.NewJWTManager(cfg.JWT)
		if err != nil {
			return err
		}

		claims, err := jwt.ParseAccessToken(cmd.Context(), raw)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	},
}

// tokenArg reads the token from the argument or, when absent, stdin.
func tokenArg(args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(strings.TrimPrefix(args[0], "Bearer ")), nil
	}

	raw, err := io.ReadAll(io.LimitReader(os.Stdin, 16<<10))
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(raw)), "Bearer "))
	if token == "" {
		return "", errors.New("no token given")
	}
	return token, nil
}

func init() {
	healthcheckCmd.Flags().StringVar(&healthURL, "url", "http://localhost:8080", "gateway base URL")
	healthcheckCmd.Flags().DurationVar(&healthTimeout, "timeout", 5*time.Second, "probe timeout")

	tokenCmd.AddCommand(tokenInspectCmd)
}
