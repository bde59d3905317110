package datascope_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

func newFacadeFixture(t *testing.T) (directoryFixture, *datascope.Facade) {
	t.Helper()
	f := newDirectoryFixture(t)
	return f, datascope.NewFacade(f.resolver, logrus.New())
}

func TestAssertCanAccessOrg(t *testing.T) {
	f, facade := newFacadeFixture(t)
	ctx := context.Background()

	p := f.principal(datascope.ScopeOrg, f.branch)
	require.NoError(t, facade.AssertCanAccessOrg(ctx, p, f.branch))

	err := facade.AssertCanAccessOrg(ctx, p, f.sibling)
	require.True(t, serrors.IsForbidden(err))
}

func TestAssertCanAccessOrgAllBypassesExistence(t *testing.T) {
	f, facade := newFacadeFixture(t)
	p := f.principal(datascope.ScopeAll, f.root)
	// ALL skips the per-org check entirely, even for unknown targets.
	require.NoError(t, facade.AssertCanAccessOrg(context.Background(), p, uuid.New()))
}

func TestAssertCanMutateOrgChecksEveryTarget(t *testing.T) {
	f, facade := newFacadeFixture(t)
	ctx := context.Background()

	p := f.principal(datascope.ScopeOrgTree, f.branch)
	require.NoError(t, facade.AssertCanMutateOrg(ctx, p, f.branch, f.leaf))

	err := facade.AssertCanMutateOrg(ctx, p, f.leaf, f.sibling)
	require.True(t, serrors.IsForbidden(err))
}

func TestFilterForSurfacesConfigurationError(t *testing.T) {
	f, facade := newFacadeFixture(t)
	p := f.principal(datascope.ScopeSelf, f.branch)
	_, err := facade.FilterFor(context.Background(), p, datascope.Columns{Org: "org_id", OrgPath: "org_path"})
	require.Error(t, err)
	require.Equal(t, "SCOPE_OWNER_REQUIRED", serrors.CodeOf(err))
}
