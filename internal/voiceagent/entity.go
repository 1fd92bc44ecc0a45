// AngelaMos | 2026
// entity.go

package voiceagent

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusTrial    = "trial"
	StatusDraft    = "draft"
)

// Configuration is stored as a JSONB document.
type Configuration struct {
	Language       string `json:"language,omitempty"`
	UseCase        string `json:"use_case,omitempty"`
	WelcomeMessage string `json:"welcome_message,omitempty"`
	AgentPrompt    string `json:"agent_prompt,omitempty"`
}

func (c Configuration) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Configuration) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = Configuration{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan configuration: unsupported type %T", src)
	}
	return json.Unmarshal(raw, c)
}

type VoiceAgent struct {
	ID            string        `db:"id"`
	Title         string        `db:"title"`
	Description   *string       `db:"description"`
	Category      string        `db:"category"`
	Status        string        `db:"status"`
	Configuration Configuration `db:"configuration"`
	EnterpriseID  string        `db:"enterprise_id"`
	CreatedBy     *string       `db:"created_by"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// EnterpriseQuota is the locked view of an enterprise taken while a new
// agent is being created.
type EnterpriseQuota struct {
	Status       string     `db:"status"`
	TrialEndDate *time.Time `db:"trial_end_date"`
	Agents       int        `db:"agents"`
}
