// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/bhashai/gateway/internal/core"
)

// PlatformCounts are cross-tenant totals. They are only ever served to super
// admins, so the queries are deliberately unscoped.
type PlatformCounts struct {
	Enterprises         int `db:"enterprises"          json:"enterprises"`
	ActiveEnterprises   int `db:"active_enterprises"   json:"active_enterprises"`
	TrialEnterprises    int `db:"trial_enterprises"    json:"trial_enterprises"`
	InactiveEnterprises int `db:"inactive_enterprises" json:"inactive_enterprises"`
	Users               int `db:"users"                json:"users"`
	Admins              int `db:"admins"               json:"admins"`
	SuperAdmins         int `db:"super_admins"         json:"super_admins"`
	VoiceAgents         int `db:"voice_agents"         json:"voice_agents"`
	Contacts            int `db:"contacts"             json:"contacts"`
}

type Repository interface {
	Counts(ctx context.Context) (*PlatformCounts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Counts(ctx context.Context) (*PlatformCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM enterprises) AS enterprises,
			(SELECT COUNT(*) FROM enterprises WHERE status = 'active') AS active_enterprises,
			(SELECT COUNT(*) FROM enterprises WHERE status = 'trial') AS trial_enterprises,
			(SELECT COUNT(*) FROM enterprises WHERE status = 'inactive') AS inactive_enterprises,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS users,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role = 'admin') AS admins,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role IN ('super_admin', 'superadmin')) AS super_admins,
			(SELECT COUNT(*) FROM voice_agents) AS voice_agents,
			(SELECT COUNT(*) FROM contacts) AS contacts`

	var c PlatformCounts
	if err := r.db.GetContext(ctx, &c, query); err != nil {
		return nil, fmt.Errorf("platform counts: %w", err)
	}

	return &c, nil
}
