package seed

import (
	"context"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/modules/core/permissions"
	orgaggregate "github.com/atlas-hq/atlas-admin/modules/org/domain/aggregates/organization"
	orgservices "github.com/atlas-hq/atlas-admin/modules/org/services"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

const (
	AdminRoleName    = "Super Administrator"
	OrgAdminRoleName = "Organization Administrator"
	MemberRoleName   = "Member"
	GuestRoleName    = "Guest"

	rootOrgName = "Head Office"
	rootOrgCode = "HQ"

	adminUsername = "admin"
	adminFullName = "System Administrator"
)

// Seeder provisions the baseline records a fresh installation needs: a root
// organization, the two system roles, and an administrator account. Every step
// is idempotent, so running it against an initialized database is a no-op.
type Seeder struct {
	orgs   orgaggregate.Repository
	orgSvc *orgservices.OrgService
	roles  role.Repository
	users  user.Repository
}

func New(orgs orgaggregate.Repository, orgSvc *orgservices.OrgService, roles role.Repository, users user.Repository) *Seeder {
	return &Seeder{orgs: orgs, orgSvc: orgSvc, roles: roles, users: users}
}

func (s *Seeder) Seed(ctx context.Context) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		rootOrg, err := s.ensureRootOrg(txCtx)
		if err != nil {
			return err
		}
		adminRole, err := s.ensureRole(txCtx, role.NewSystem(
			AdminRoleName, "Full access to every organization", datascope.ScopeAll, permissions.All(),
		))
		if err != nil {
			return err
		}
		others := []role.Role{
			role.NewSystem(
				OrgAdminRoleName, "Manages the own organization subtree", datascope.ScopeOrgTree,
				[]string{
					permissions.OrgRead, permissions.OrgCreate, permissions.OrgUpdate, permissions.OrgDelete,
					permissions.UserRead, permissions.UserCreate, permissions.UserUpdate, permissions.UserDelete,
					permissions.RoleRead, permissions.RoleAssign,
				},
			),
			role.NewSystem(
				MemberRoleName, "Reads records of the own organization", datascope.ScopeOrg,
				[]string{permissions.OrgRead, permissions.UserRead},
			),
			role.NewSystem(
				GuestRoleName, "Own records only", datascope.ScopeSelf,
				[]string{permissions.UserRead},
			),
		}
		for _, desired := range others {
			if _, err := s.ensureRole(txCtx, desired); err != nil {
				return err
			}
		}
		return s.ensureAdminUser(txCtx, rootOrg, adminRole)
	})
}

func (s *Seeder) ensureRootOrg(ctx context.Context) (orgaggregate.Organization, error) {
	existing, err := s.orgs.GetByCode(ctx, rootOrgCode)
	if err == nil {
		return existing, nil
	}
	if !serrors.IsNotFound(err) {
		return orgaggregate.Organization{}, err
	}
	system := datascope.Principal{Scope: datascope.ScopeAll}
	return s.orgSvc.Create(ctx, system, &orgaggregate.CreateDTO{
		Name: rootOrgName,
		Code: rootOrgCode,
	})
}

func (s *Seeder) ensureRole(ctx context.Context, desired role.Role) (role.Role, error) {
	existing, err := s.roles.GetByName(ctx, desired.Name())
	if err == nil {
		return existing, nil
	}
	if !serrors.IsNotFound(err) {
		return role.Role{}, err
	}
	return s.roles.Create(ctx, desired)
}

func (s *Seeder) ensureAdminUser(ctx context.Context, rootOrg orgaggregate.Organization, adminRole role.Role) error {
	existing, err := s.users.GetByUsername(ctx, adminUsername)
	if err == nil {
		return s.users.AssignRoles(ctx, existing.ID(), []uuid.UUID{adminRole.ID()})
	}
	if !serrors.IsNotFound(err) {
		return err
	}
	created, err := s.users.Create(ctx, user.New(adminUsername, adminFullName, "", rootOrg.ID()))
	if err != nil {
		return err
	}
	return s.users.AssignRoles(ctx, created.ID(), []uuid.UUID{adminRole.ID()})
}
