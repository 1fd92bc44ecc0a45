// AngelaMos | 2026
// dto.go

package contact

import (
	"time"

	"github.com/bhashai/gateway/internal/core"
)

type CreateContactRequest struct {
	Name   string  `json:"name"            validate:"required,min=1,max=200"`
	Phone  string  `json:"phone"           validate:"required,min=5,max=32"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Status string  `json:"status"          validate:"omitempty,oneof=active inactive do_not_call"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateContactRequest struct {
	Name   *string `json:"name,omitempty"   validate:"omitempty,min=1,max=200"`
	Phone  *string `json:"phone,omitempty"  validate:"omitempty,min=5,max=32"`
	Email  *string `json:"email,omitempty"  validate:"omitempty,email,max=255"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive do_not_call"`
	Notes  *string `json:"notes,omitempty"  validate:"omitempty,max=2000"`
}

type ContactResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        *string   `json:"email"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes"`
	VoiceAgentID string    `json:"voice_agent_id"`
	EnterpriseID string    `json:"enterprise_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListContactsParams struct {
	core.PageParams
	Search       string
	Status       string
	VoiceAgentID string
}

func ToContactResponse(c *Contact) ContactResponse {
	return ContactResponse{
		ID:           c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Status:       c.Status,
		Notes:        c.Notes,
		VoiceAgentID: c.VoiceAgentID,
		EnterpriseID: c.EnterpriseID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func ToContactResponseList(contacts []Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, ToContactResponse(&contacts[i]))
	}
	return out
}
