// AngelaMos | 2026
// entity.go

package enterprise

import (
	"time"

	"github.com/bhashai/gateway/internal/auth"
)

const (
	TypeHealthcare = "healthcare"
	TypeClinic     = "clinic"
	TypeDiagnostic = "diagnostic"
	TypePharmacy   = "pharmacy"
	TypeOther      = "other"
)

const (
	StatusActive   = "active"
	StatusTrial    = "trial"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

type Enterprise struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Description  *string    `db:"description"`
	Type         string     `db:"type"`
	ContactEmail *string    `db:"contact_email"`
	Status       string     `db:"status"`
	TrialEndDate *time.Time `db:"trial_end_date"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (e *Enterprise) IsActive() bool {
	return e.Status == StatusActive || e.Status == StatusTrial
}

func (e *Enterprise) Trial(now time.Time) auth.TrialStatus {
	return auth.NewTrialStatus(e.Status, e.TrialEndDate, now)
}
