// AngelaMos | 2026
// permission.go

package access

type Permission uint16

const (
	ReadOwnEnterprise Permission = 1 << iota
	UpdateOwnEnterprise
	ManageEnterprises
	ReadVoiceAgents
	WriteVoiceAgents
	ReadContacts
	WriteContacts
	ManageTenantUsers
	ManageAllUsers
	GrantSuperAdmin
	ViewPlatformStats
	BypassTenantFilter
)

var permissionNames = []struct {
	p    Permission
	name string
}{
	{ReadOwnEnterprise, "enterprise:read"},
	{UpdateOwnEnterprise, "enterprise:update"},
	{ManageEnterprises, "enterprises:manage"},
	{ReadVoiceAgents, "voice_agents:read"},
	{WriteVoiceAgents, "voice_agents:write"},
	{ReadContacts, "contacts:read"},
	{WriteContacts, "contacts:write"},
	{ManageTenantUsers, "users:manage"},
	{ManageAllUsers, "users:manage_all"},
	{GrantSuperAdmin, "roles:grant_super_admin"},
	{ViewPlatformStats, "platform:stats"},
	{BypassTenantFilter, "tenant:bypass"},
}

type Permissions Permission

const (
	userPermissions = ReadOwnEnterprise |
		ReadVoiceAgents | WriteVoiceAgents |
		ReadContacts | WriteContacts

	adminPermissions = userPermissions |
		UpdateOwnEnterprise |
		ManageTenantUsers

	superAdminPermissions = adminPermissions |
		ManageEnterprises |
		ManageAllUsers |
		GrantSuperAdmin |
		ViewPlatformStats |
		BypassTenantFilter
)

// PermissionsFor is a pure mapping from role to permission set. Unknown roles
// get nothing.
func PermissionsFor(r Role) Permissions {
	switch r {
	case RoleSuperAdmin:
		return Permissions(superAdminPermissions)
	case RoleAdmin:
		return Permissions(adminPermissions)
	case RoleUser:
		return Permissions(userPermissions)
	}
	return 0
}

func (ps Permissions) Has(p Permission) bool {
	return Permission(ps)&p == p
}

func (ps Permissions) Names() []string {
	names := make([]string, 0, len(permissionNames))
	for _, pn := range permissionNames {
		if ps.Has(pn.p) {
			names = append(names, pn.name)
		}
	}
	return names
}

func (p Permission) String() string {
	for _, pn := range permissionNames {
		if pn.p == p {
			return pn.name
		}
	}
	return "unknown"
}

// Can is shorthand for PermissionsFor(r).Has(p).
func Can(r Role, p Permission) bool {
	return PermissionsFor(r).Has(p)
}
