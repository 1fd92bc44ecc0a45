// AngelaMos | 2026
// scope_test.go

package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhashai/gateway/internal/access"
	"github.com/bhashai/gateway/internal/core"
)

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, err := MustFromContext(context.Background())
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	want := Scope{UserID: "u1", Role: access.RoleUser, EnterpriseID: "e1"}
	ctx := WithScope(context.Background(), want)

	got, err := MustFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		scope     Scope
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "tenant user filtered by enterprise",
			scope:     Scope{UserID: "u1", Role: access.RoleUser, EnterpriseID: "e1"},
			wantWhere: "enterprise_id = $1",
			wantArgs:  []any{"e1"},
		},
		{
			name:      "admin filtered by enterprise",
			scope:     Scope{UserID: "u2", Role: access.RoleAdmin, EnterpriseID: "e2"},
			wantWhere: "enterprise_id = $1",
			wantArgs:  []any{"e2"},
		},
		{
			name:      "super admin unfiltered",
			scope:     Scope{UserID: "s1", Role: access.RoleSuperAdmin},
			wantWhere: "TRUE",
		},
		{
			name:      "tenant user without enterprise sees nothing",
			scope:     Scope{UserID: "u3", Role: access.RoleUser},
			wantWhere: "FALSE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f core.Filter
			tt.scope.Apply(&f, "enterprise_id")

			assert.Equal(t, tt.wantWhere, f.Where())
			assert.Equal(t, tt.wantArgs, f.Args())
		})
	}
}

func TestApplyComposesWithOtherConditions(t *testing.T) {
	var f core.Filter
	f.Eq("status", "active")
	Scope{Role: access.RoleUser, EnterpriseID: "e1"}.Apply(&f, "c.enterprise_id")

	assert.Equal(t, "status = $1 AND c.enterprise_id = $2", f.Where())
	assert.Equal(t, 3, f.Next())
}

func TestOwns(t *testing.T) {
	e1, e2 := "e1", "e2"
	user := Scope{Role: access.RoleUser, EnterpriseID: "e1"}

	assert.True(t, user.Owns(&e1))
	assert.False(t, user.Owns(&e2))
	assert.False(t, user.Owns(nil))

	super := Scope{Role: access.RoleSuperAdmin}
	assert.True(t, super.Owns(&e2))
	assert.True(t, super.Owns(nil))
}

func TestStamp(t *testing.T) {
	user := Scope{Role: access.RoleUser, EnterpriseID: "e1"}
	got, err := user.Stamp("e2")
	require.NoError(t, err)
	assert.Equal(t, "e1", got, "client supplied enterprise must be ignored")

	_, err = Scope{Role: access.RoleAdmin}.Stamp("e2")
	assert.ErrorIs(t, err, core.ErrNoEnterprise)

	super := Scope{Role: access.RoleSuperAdmin}
	got, err = super.Stamp("e2")
	require.NoError(t, err)
	assert.Equal(t, "e2", got)

	_, err = super.Stamp("")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
