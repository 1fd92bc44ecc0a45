// AngelaMos | 2026
// dto.go

package voiceagent

import (
	"time"

	"github.com/bhashai/gateway/internal/core"
)

type CreateVoiceAgentRequest struct {
	Title         string        `json:"title"                   validate:"required,min=1,max=200"`
	Description   *string       `json:"description,omitempty"   validate:"omitempty,max=1000"`
	Category      string        `json:"category"                validate:"omitempty,max=100"`
	Status        string        `json:"status"                  validate:"omitempty,oneof=active inactive draft"`
	Configuration Configuration `json:"configuration"`
	EnterpriseID  string        `json:"enterprise_id,omitempty" validate:"omitempty,uuid"`
}

type UpdateVoiceAgentRequest struct {
	Title         *string        `json:"title,omitempty"         validate:"omitempty,min=1,max=200"`
	Description   *string        `json:"description,omitempty"   validate:"omitempty,max=1000"`
	Category      *string        `json:"category,omitempty"      validate:"omitempty,max=100"`
	Status        *string        `json:"status,omitempty"        validate:"omitempty,oneof=active inactive draft"`
	Configuration *Configuration `json:"configuration,omitempty"`
}

type VoiceAgentResponse struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   *string       `json:"description"`
	Category      string        `json:"category"`
	Status        string        `json:"status"`
	Configuration Configuration `json:"configuration"`
	EnterpriseID  string        `json:"enterprise_id"`
	CreatedBy     *string       `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type ListVoiceAgentsParams struct {
	core.PageParams
	Search       string
	Status       string
	Category     string
	EnterpriseID string
}

func ToVoiceAgentResponse(a *VoiceAgent) VoiceAgentResponse {
	return VoiceAgentResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Category:      a.Category,
		Status:        a.Status,
		Configuration: a.Configuration,
		EnterpriseID:  a.EnterpriseID,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func ToVoiceAgentResponseList(agents []VoiceAgent) []VoiceAgentResponse {
	out := make([]VoiceAgentResponse, 0, len(agents))
	for i := range agents {
		out = append(out, ToVoiceAgentResponse(&agents[i]))
	}
	return out
}
