// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/bhashai/gateway/internal/access"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID           string      `db:"id"`
	Email        string      `db:"email"`
	PasswordHash string      `db:"password_hash"`
	Name         string      `db:"name"`
	Role         access.Role `db:"role"`
	Status       string      `db:"status"`
	EnterpriseID *string     `db:"enterprise_id"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
	DeletedAt    *time.Time  `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive && !u.IsDeleted()
}

// Account is a user joined with its enterprise, as read at login.
type Account struct {
	User
	EnterpriseName   *string    `db:"enterprise_name"`
	EnterpriseStatus *string    `db:"enterprise_status"`
	TrialEndDate     *time.Time `db:"trial_end_date"`
}
