// AngelaMos | 2026
// scope.go

package tenant

import (
	"context"
	"fmt"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
)

// Scope is the tenant view of a single authenticated request. It is built
// from validated token claims and carried on the request context.
type Scope struct {
	UserID       string
	Role         access.Role
	EnterpriseID string
}

type scopeKey struct{}

func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(Scope)
	return s, ok
}

// MustFromContext returns ErrUnauthorized when the request was never
// authenticated.
func MustFromContext(ctx context.Context) (Scope, error) {
	s, ok := FromContext(ctx)
	if !ok || s.UserID == "" {
		return Scope{}, core.ErrUnauthorized
	}
	return s, nil
}

func (s Scope) Bypass() bool {
	return s.Role.IsSuperAdmin()
}

func (s Scope) Can(p access.Permission) bool {
	return access.Can(s.Role, p)
}

// Apply restricts f to rows owned by the caller's enterprise. Super admins
// are not filtered. A tenant-bound scope without an enterprise matches
// nothing.
func (s Scope) Apply(f *core.Filter, column string) {
	if s.Bypass() {
		return
	}
	if s.EnterpriseID == "" {
		f.Never()
		return
	}
	f.Eq(column, s.EnterpriseID)
}

// Owns reports whether a row with the given enterprise id is visible.
func (s Scope) Owns(enterpriseID *string) bool {
	if s.Bypass() {
		return true
	}
	return enterpriseID != nil && s.EnterpriseID != "" && *enterpriseID == s.EnterpriseID
}

// Stamp picks the enterprise id for a new row. Tenant users always get their
// own enterprise regardless of what the client sent. Super admins must name
// one explicitly.
func (s Scope) Stamp(requested string) (string, error) {
	if !s.Bypass() {
		if s.EnterpriseID == "" {
			return "", core.ErrNoEnterprise
		}
		return s.EnterpriseID, nil
	}
	if requested == "" {
		return "", fmt.Errorf("%w: enterprise_id is required", core.ErrInvalidInput)
	}
	return requested, nil
}
