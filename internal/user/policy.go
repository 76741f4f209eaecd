package user

// RolePolicy is the immutable department to allowed-roles table consulted when
// provisioning accounts. It is built once at startup and injected into the
// service; nothing mutates it afterwards.
type RolePolicy struct {
	allowed map[Department][]Role
}

func NewRolePolicy(table map[Department][]Role) RolePolicy {
	copied := make(map[Department][]Role, len(table))
	for dept, roles := range table {
		copied[dept] = append([]Role(nil), roles...)
	}
	return RolePolicy{allowed: copied}
}

// DefaultRolePolicy mirrors the organizational chart: SuperAdmin lives in
// Administration, each operating department carries its own ladder, and the
// approval-authority roles (DepartmentHead, Dean) are valid in every
// department outside Administration and Board.
func DefaultRolePolicy() RolePolicy {
	table := map[Department][]Role{
		DepartmentAdministration: {RoleSuperAdmin},
		DepartmentBoard:          {RoleChairperson, RoleExecutiveManager, RoleDean},
		DepartmentEngineering:    {RoleAdmin, RoleLead, RoleEmployee, RoleDepartmentHead, RoleDean},
		DepartmentHR:             {RoleAdmin, RoleEmployee, RoleDepartmentHead, RoleDean},
		DepartmentFinance:        {RoleAdmin, RoleAuditor, RoleEmployee, RoleDepartmentHead, RoleDean},
		DepartmentOperations:     {RoleAdmin, RoleSupervisor, RoleEmployee, RoleDepartmentHead, RoleDean},
	}
	return NewRolePolicy(table)
}

// Allows reports whether the role may be assigned within the department.
// Role comparison is case-insensitive; department names are exact.
func (p RolePolicy) Allows(dept Department, role Role) bool {
	roles, ok := p.allowed[dept]
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if allowed.Is(role) {
			return true
		}
	}
	return false
}

// KnownDepartment reports whether the department appears in the table at all.
func (p RolePolicy) KnownDepartment(dept Department) bool {
	_, ok := p.allowed[dept]
	return ok
}
