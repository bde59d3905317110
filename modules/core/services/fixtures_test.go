package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/modules/core/services"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/orgpath"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

type memoryRoleRepo struct {
	mu          sync.Mutex
	roles       map[uuid.UUID]role.Role
	assignments map[uuid.UUID][]uuid.UUID // user -> roles
}

func newMemoryRoleRepo() *memoryRoleRepo {
	return &memoryRoleRepo{
		roles:       make(map[uuid.UUID]role.Role),
		assignments: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *memoryRoleRepo) GetByID(_ context.Context, id uuid.UUID) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.roles[id]
	if !ok {
		return role.Role{}, serrors.NotFound("ROLE_NOT_FOUND", "role not found")
	}
	return entity, nil
}

func (r *memoryRoleRepo) GetByName(_ context.Context, name string) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entity := range r.roles {
		if entity.Name() == name {
			return entity, nil
		}
	}
	return role.Role{}, serrors.NotFound("ROLE_NOT_FOUND", "role not found")
}

func (r *memoryRoleRepo) FindAll(_ context.Context) ([]role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]role.Role, 0, len(r.roles))
	for _, entity := range r.roles {
		out = append(out, entity)
	}
	return out, nil
}

func (r *memoryRoleRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []role.Role
	for _, roleID := range r.assignments[userID] {
		if entity, ok := r.roles[roleID]; ok {
			out = append(out, entity)
		}
	}
	return out, nil
}

func (r *memoryRoleRepo) CountAssignedUsers(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, roleIDs := range r.assignments {
		for _, roleID := range roleIDs {
			if roleID == id {
				n++
			}
		}
	}
	return n, nil
}

func (r *memoryRoleRepo) Create(_ context.Context, entity role.Role) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[entity.ID()] = entity
	return entity, nil
}

func (r *memoryRoleRepo) Update(_ context.Context, entity role.Role) (role.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[entity.ID()]; !ok {
		return role.Role{}, serrors.NotFound("ROLE_NOT_FOUND", "role not found")
	}
	r.roles[entity.ID()] = entity
	return entity, nil
}

func (r *memoryRoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return serrors.NotFound("ROLE_NOT_FOUND", "role not found")
	}
	delete(r.roles, id)
	return nil
}

// seedSystemRole bypasses the service so tests can plant protected roles.
func (r *memoryRoleRepo) seedSystemRole(name string, scope datascope.Scope, perms []string) role.Role {
	now := time.Now()
	entity := role.Hydrate(uuid.New(), name, "", scope, true, perms, now, now)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[entity.ID()] = entity
	return entity
}

func (r *memoryRoleRepo) assign(userID uuid.UUID, roleIDs ...uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[userID] = roleIDs
}

type memoryUserRepo struct {
	mu       sync.Mutex
	users    map[uuid.UUID]user.User
	roles    *memoryRoleRepo
	orgPaths map[uuid.UUID]string
}

func newMemoryUserRepo(roles *memoryRoleRepo) *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]user.User), roles: roles}
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.users[id]
	if !ok {
		return user.User{}, serrors.NotFound("USER_NOT_FOUND", "user not found")
	}
	return entity, nil
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entity := range r.users {
		if entity.Username() == username {
			return entity, nil
		}
	}
	return user.User{}, serrors.NotFound("USER_NOT_FOUND", "user not found")
}

func (r *memoryUserRepo) FindByFilter(_ context.Context, f datascope.Filter) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(r.users))
	for _, entity := range r.users {
		target := datascope.Target{OrgID: entity.OrgID(), OwnerID: entity.ID()}
		if path, ok := r.orgPaths[entity.OrgID()]; ok {
			target.OrgPath = path
		}
		if f.Matches(target) {
			out = append(out, entity)
		}
	}
	return out, nil
}

func (r *memoryUserRepo) CountByOrg(_ context.Context, orgID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, entity := range r.users {
		if entity.OrgID() == orgID {
			n++
		}
	}
	return n, nil
}

func (r *memoryUserRepo) Create(_ context.Context, entity user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[entity.ID()] = entity
	return entity, nil
}

func (r *memoryUserRepo) Update(_ context.Context, entity user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[entity.ID()]; !ok {
		return user.User{}, serrors.NotFound("USER_NOT_FOUND", "user not found")
	}
	r.users[entity.ID()] = entity
	return entity, nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return serrors.NotFound("USER_NOT_FOUND", "user not found")
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) AssignRoles(_ context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	r.roles.assign(userID, roleIDs...)
	return nil
}

// memoryOrgDirectory is a flat id-to-path map standing in for the
// organization repository.
type memoryOrgDirectory struct {
	paths map[uuid.UUID]string
}

func (d *memoryOrgDirectory) PathByID(_ context.Context, id uuid.UUID) (string, error) {
	path, ok := d.paths[id]
	if !ok {
		return "", serrors.NotFound("ORG_NOT_FOUND", "organization not found")
	}
	return path, nil
}

func (d *memoryOrgDirectory) IDsByPathPrefix(_ context.Context, prefix string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, path := range d.paths {
		if orgpath.IsDescendantOrSelf(path, prefix) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (d *memoryOrgDirectory) AllIDs(_ context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(d.paths))
	for id := range d.paths {
		out = append(out, id)
	}
	return out, nil
}

type coreFixture struct {
	roles *memoryRoleRepo
	users *memoryUserRepo
	orgs  *memoryOrgDirectory

	roleSvc *services.RoleService
	userSvc *services.UserService
	authSvc *services.AuthService

	rootOrg   uuid.UUID
	branchOrg uuid.UUID
	admin     datascope.Principal
}

func newCoreFixture(t *testing.T) *coreFixture {
	t.Helper()
	roles := newMemoryRoleRepo()
	users := newMemoryUserRepo(roles)

	rootOrg := uuid.New()
	branchOrg := uuid.New()
	orgs := &memoryOrgDirectory{paths: map[uuid.UUID]string{
		rootOrg:   orgpath.RootPath(rootOrg),
		branchOrg: orgpath.ChildPath(orgpath.RootPath(rootOrg), branchOrg),
	}}
	users.orgPaths = orgs.paths

	logger := logrus.New()
	facade := datascope.NewFacade(datascope.NewResolver(orgs, logger), logger)
	return &coreFixture{
		roles:     roles,
		users:     users,
		orgs:      orgs,
		roleSvc:   services.NewRoleService(roles),
		userSvc:   services.NewUserService(users, roles, facade),
		authSvc:   services.NewAuthService(users, roles, orgs),
		rootOrg:   rootOrg,
		branchOrg: branchOrg,
		admin:     datascope.Principal{ID: uuid.New(), OrgID: rootOrg, Scope: datascope.ScopeAll},
	}
}

func ptr[T any](v T) *T { return &v }
