// AngelaMos | 2026
// dto.go

package enterprise

import (
	"time"

	"github.com/bhashai/gateway/internal/auth"
	"github.com/bhashai/gateway/internal/core"
)

type CreateEnterpriseRequest struct {
	Name         string  `json:"name"                    validate:"required,min=1,max=200"`
	Description  *string `json:"description,omitempty"   validate:"omitempty,max=1000"`
	Type         string  `json:"type"                    validate:"omitempty,oneof=healthcare clinic diagnostic pharmacy other"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	Status       string  `json:"status"                  validate:"omitempty,oneof=active trial pending"`
}

type UpdateEnterpriseRequest struct {
	Name         *string `json:"name,omitempty"          validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description,omitempty"   validate:"omitempty,max=1000"`
	Type         *string `json:"type,omitempty"          validate:"omitempty,oneof=healthcare clinic diagnostic pharmacy other"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	Status       *string `json:"status,omitempty"        validate:"omitempty,oneof=active trial inactive pending"`
}

type EnterpriseResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  *string           `json:"description"`
	Type         string            `json:"type"`
	ContactEmail *string           `json:"contact_email"`
	Status       string            `json:"status"`
	Trial        *auth.TrialStatus `json:"trial,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type ListEnterprisesParams struct {
	core.PageParams
	Search string
	Status string
	Type   string
}

func ToEnterpriseResponse(e *Enterprise, now time.Time) EnterpriseResponse {
	resp := EnterpriseResponse{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Type:         e.Type,
		ContactEmail: e.ContactEmail,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Status == StatusTrial {
		trial := e.Trial(now)
		resp.Trial = &trial
	}
	return resp
}

func ToEnterpriseResponseList(list []Enterprise, now time.Time) []EnterpriseResponse {
	out := make([]EnterpriseResponse, 0, len(list))
	for i := range list {
		out = append(out, ToEnterpriseResponse(&list[i], now))
	}
	return out
}
