package permissions

// Permission codes shared with clients. Single source of truth used both by
// role validation and by route guards.
const (
	UserRead          = "user:read"
	UserCreate        = "user:create"
	UserUpdate        = "user:update"
	UserDelete        = "user:delete"
	UserResetPassword = "user:reset-password"

	OrgRead   = "org:read"
	OrgCreate = "org:create"
	OrgUpdate = "org:update"
	OrgDelete = "org:delete"

	RoleRead   = "role:read"
	RoleCreate = "role:create"
	RoleUpdate = "role:update"
	RoleDelete = "role:delete"
	RoleAssign = "role:assign"

	SystemSettings = "system:settings"
)

var registry = map[string]struct{}{
	UserRead:          {},
	UserCreate:        {},
	UserUpdate:        {},
	UserDelete:        {},
	UserResetPassword: {},
	OrgRead:           {},
	OrgCreate:         {},
	OrgUpdate:         {},
	OrgDelete:         {},
	RoleRead:          {},
	RoleCreate:        {},
	RoleUpdate:        {},
	RoleDelete:        {},
	RoleAssign:        {},
	SystemSettings:    {},
}

// Known reports whether code is a registered permission.
func Known(code string) bool {
	_, ok := registry[code]
	return ok
}

// All returns every registered permission code.
func All() []string {
	out := make([]string, 0, len(registry))
	for code := range registry {
		out = append(out, code)
	}
	return out
}
