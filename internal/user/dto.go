// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
)

type CreateUserRequest struct {
	Email        string      `json:"email"         validate:"required,email,max=255"`
	Password     string      `json:"password"      validate:"required,min=8,max=128"`
	Name         string      `json:"name"          validate:"required,min=1,max=100"`
	Role         access.Role `json:"role"          validate:"omitempty"`
	EnterpriseID string      `json:"enterprise_id" validate:"omitempty,uuid"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"   validate:"omitempty,min=1,max=100"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type UpdateMeRequest struct {
	Name            *string `json:"name,omitempty"             validate:"omitempty,min=1,max=100"`
	CurrentPassword string  `json:"current_password,omitempty" validate:"required_with=NewPassword"`
	NewPassword     string  `json:"new_password,omitempty"     validate:"omitempty,min=8,max=128"`
}

type UpdateUserRoleRequest struct {
	Role access.Role `json:"role" validate:"required"`
}

type UserResponse struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         access.Role `json:"role"`
	Status       string      `json:"status"`
	EnterpriseID *string     `json:"enterprise_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type ListUsersParams struct {
	core.PageParams
	Search       string
	Role         access.Role
	Status       string
	EnterpriseID string
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Status:       u.Status,
		EnterpriseID: u.EnterpriseID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
