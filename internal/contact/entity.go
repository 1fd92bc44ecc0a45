// AngelaMos | 2026
// entity.go

package contact

import "time"

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusDoNotCall = "do_not_call"
)

// Contact is a callee attached to a voice agent. EnterpriseID is copied from
// the agent at creation and never taken from the client.
type Contact struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Phone        string    `db:"phone"`
	Email        *string   `db:"email"`
	Status       string    `db:"status"`
	Notes        *string   `db:"notes"`
	VoiceAgentID string    `db:"voice_agent_id"`
	EnterpriseID string    `db:"enterprise_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
