package role

import (
	"time"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/pkg/datascope"
)

// Role groups permission codes under a name and carries the data scope
// applied to every holder of the role.
type Role struct {
	id          uuid.UUID
	name        string
	description string
	dataScope   datascope.Scope
	isSystem    bool
	permissions []string
	createdAt   time.Time
	updatedAt   time.Time
}

func New(name, description string, scope datascope.Scope, perms []string) Role {
	now := time.Now()
	return Role{
		id:          uuid.New(),
		name:        name,
		description: description,
		dataScope:   scope,
		permissions: clonePerms(perms),
		createdAt:   now,
		updatedAt:   now,
	}
}

// NewSystem builds a seeded role protected from rename and deletion.
func NewSystem(name, description string, scope datascope.Scope, perms []string) Role {
	r := New(name, description, scope, perms)
	r.isSystem = true
	return r
}

func Hydrate(
	id uuid.UUID,
	name, description string,
	scope datascope.Scope,
	isSystem bool,
	perms []string,
	createdAt, updatedAt time.Time,
) Role {
	return Role{
		id:          id,
		name:        name,
		description: description,
		dataScope:   scope,
		isSystem:    isSystem,
		permissions: clonePerms(perms),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (r Role) ID() uuid.UUID              { return r.id }
func (r Role) Name() string               { return r.name }
func (r Role) Description() string        { return r.description }
func (r Role) DataScope() datascope.Scope { return r.dataScope }
func (r Role) IsSystem() bool             { return r.isSystem }
func (r Role) Permissions() []string      { return clonePerms(r.permissions) }
func (r Role) CreatedAt() time.Time       { return r.createdAt }
func (r Role) UpdatedAt() time.Time       { return r.updatedAt }

func (r Role) IsZero() bool { return r.id == uuid.Nil }

// WithDetails returns a copy with name, description and scope replaced.
func (r Role) WithDetails(name, description string, scope datascope.Scope) Role {
	r.name = name
	r.description = description
	r.dataScope = scope
	r.updatedAt = time.Now()
	return r
}

// WithPermissions returns a copy with the permission set replaced.
func (r Role) WithPermissions(perms []string) Role {
	r.permissions = clonePerms(perms)
	r.updatedAt = time.Now()
	return r
}

func clonePerms(perms []string) []string {
	if perms == nil {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
