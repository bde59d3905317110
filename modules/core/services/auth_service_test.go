package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/modules/core/permissions"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

func TestResolvePrincipalFoldsRoles(t *testing.T) {
	f := newCoreFixture(t)
	ctx := context.Background()

	viewer := f.roles.seedSystemRole("Viewer", datascope.ScopeSelf, []string{permissions.OrgRead})
	manager := f.roles.seedSystemRole("Manager", datascope.ScopeOrgTree, []string{permissions.OrgRead, permissions.UserUpdate})

	u, err := f.userSvc.Create(ctx, f.admin, user.CreateDTO{
		Username: "jsmith",
		FullName: "J. Smith",
		OrgID:    f.branchOrg,
	})
	require.NoError(t, err)
	f.roles.assign(u.ID(), viewer.ID(), manager.ID())

	p, err := f.authSvc.ResolvePrincipal(ctx, u.ID())
	require.NoError(t, err)
	require.Equal(t, u.ID(), p.ID)
	require.Equal(t, f.branchOrg, p.OrgID)
	require.Equal(t, f.orgs.paths[f.branchOrg], p.OrgPath)
	// The widest scope across roles wins.
	require.Equal(t, datascope.ScopeOrgTree, p.Scope)
	// Permissions are the union, deduplicated.
	require.True(t, p.HasPermission(permissions.OrgRead))
	require.True(t, p.HasPermission(permissions.UserUpdate))
	require.False(t, p.HasPermission(permissions.UserDelete))
}

func TestResolvePrincipalWithNoRolesDefaultsToSelf(t *testing.T) {
	f := newCoreFixture(t)
	ctx := context.Background()

	u, err := f.userSvc.Create(ctx, f.admin, user.CreateDTO{
		Username: "lonely",
		FullName: "No Roles",
		OrgID:    f.rootOrg,
	})
	require.NoError(t, err)

	p, err := f.authSvc.ResolvePrincipal(ctx, u.ID())
	require.NoError(t, err)
	require.Equal(t, datascope.ScopeSelf, p.Scope)
	require.False(t, p.HasPermission(permissions.OrgRead))
}

func TestResolvePrincipalRejectsInactiveUser(t *testing.T) {
	f := newCoreFixture(t)
	ctx := context.Background()

	u, err := f.userSvc.Create(ctx, f.admin, user.CreateDTO{
		Username: "ghost",
		FullName: "Disabled",
		OrgID:    f.rootOrg,
	})
	require.NoError(t, err)
	disabled := user.Hydrate(u.ID(), u.Username(), u.FullName(), u.Email(), u.OrgID(), false, u.CreatedAt(), u.UpdatedAt())
	_, err = f.users.Update(ctx, disabled)
	require.NoError(t, err)

	_, err = f.authSvc.ResolvePrincipal(ctx, u.ID())
	require.True(t, serrors.IsForbidden(err))
	require.Equal(t, "USER_INACTIVE", serrors.CodeOf(err))
}
