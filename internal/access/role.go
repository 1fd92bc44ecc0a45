// AngelaMos | 2026
// role.go

package access

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

const legacySuperAdmin = "superadmin"

// ParseRole accepts the canonical role names and the legacy "superadmin"
// spelling. Anything else is rejected.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleUser):
		return RoleUser, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleSuperAdmin), legacySuperAdmin:
		return RoleSuperAdmin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// Scan rejects unknown values at the row boundary.
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		return fmt.Errorf("%w: null", ErrInvalidRole)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidRole, src)
	}

	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return string(r), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// LandingPage is a navigation hint for the dashboard client. It carries no
// authorization meaning.
func LandingPage(r Role) string {
	switch r {
	case RoleSuperAdmin:
		return "/superadmin-dashboard.html"
	case RoleAdmin:
		return "/admin-dashboard.html"
	default:
		return "/dashboard.html"
	}
}
