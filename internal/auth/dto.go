// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/bhashai/gateway/internal/access"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type SignupRequest struct {
	OrganizationName string `json:"organization_name" validate:"required,min=2,max=200"`
	OrganizationType string `json:"organization_type" validate:"omitempty,oneof=healthcare clinic diagnostic pharmacy other"`
	Name             string `json:"name"              validate:"required,min=1,max=100"`
	Email            string `json:"email"             validate:"required,email,max=255"`
	Password         string `json:"password"          validate:"required,min=8,max=128"`
}

type UserResponse struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         access.Role `json:"role"`
	EnterpriseID *string     `json:"enterprise_id"`
	Status       string      `json:"status"`
}

// LoginResponse keeps the flat shape the dashboard pages read directly.
type LoginResponse struct {
	Success     bool         `json:"success"`
	Token       string       `json:"token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
	RedirectURL string       `json:"redirect_url"`
}

type TrialStatus struct {
	IsTrial       bool       `json:"is_trial"`
	Expired       bool       `json:"expired"`
	DaysRemaining int        `json:"days_remaining"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

type ProfileResponse struct {
	Success     bool         `json:"success"`
	User        UserResponse `json:"user"`
	Enterprise  *Enterprise  `json:"enterprise,omitempty"`
	Permissions []string     `json:"permissions"`
	RedirectURL string       `json:"redirect_url"`
}

type Enterprise struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status string       `json:"status"`
	Trial  *TrialStatus `json:"trial,omitempty"`
}
