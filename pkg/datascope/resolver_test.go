package datascope_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/orgpath"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

// orgDirectoryFake holds a flat id->path map standing in for the
// organization table.
type orgDirectoryFake struct {
	paths map[uuid.UUID]string
}

func (d *orgDirectoryFake) PathByID(_ context.Context, id uuid.UUID) (string, error) {
	path, ok := d.paths[id]
	if !ok {
		return "", serrors.NotFound("ORG_NOT_FOUND", "organization not found")
	}
	return path, nil
}

func (d *orgDirectoryFake) IDsByPathPrefix(_ context.Context, prefix string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(d.paths))
	for id, path := range d.paths {
		if orgpath.IsDescendantOrSelf(path, prefix) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (d *orgDirectoryFake) AllIDs(_ context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(d.paths))
	for id := range d.paths {
		out = append(out, id)
	}
	return out, nil
}

type directoryFixture struct {
	dir      *orgDirectoryFake
	root     uuid.UUID
	branch   uuid.UUID
	leaf     uuid.UUID
	sibling  uuid.UUID
	resolver *datascope.Resolver
}

func newDirectoryFixture(t *testing.T) directoryFixture {
	t.Helper()
	root := uuid.New()
	branch := uuid.New()
	leaf := uuid.New()
	sibling := uuid.New()

	rootPath := orgpath.RootPath(root)
	branchPath := orgpath.ChildPath(rootPath, branch)
	dir := &orgDirectoryFake{paths: map[uuid.UUID]string{
		root:    rootPath,
		branch:  branchPath,
		leaf:    orgpath.ChildPath(branchPath, leaf),
		sibling: orgpath.ChildPath(rootPath, sibling),
	}}
	return directoryFixture{
		dir:      dir,
		root:     root,
		branch:   branch,
		leaf:     leaf,
		sibling:  sibling,
		resolver: datascope.NewResolver(dir, logrus.New()),
	}
}

func (f directoryFixture) principal(scope datascope.Scope, orgID uuid.UUID) datascope.Principal {
	return datascope.Principal{
		ID:      uuid.New(),
		OrgID:   orgID,
		OrgPath: f.dir.paths[orgID],
		Scope:   scope,
	}
}

func TestCanAccessOrg(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	t.Run("all covers everything", func(t *testing.T) {
		p := f.principal(datascope.ScopeAll, f.root)
		ok, err := f.resolver.CanAccessOrg(ctx, p, f.leaf)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("org tree covers subtree only", func(t *testing.T) {
		p := f.principal(datascope.ScopeOrgTree, f.branch)
		for target, want := range map[uuid.UUID]bool{
			f.branch:  true,
			f.leaf:    true,
			f.sibling: false,
			f.root:    false,
		} {
			ok, err := f.resolver.CanAccessOrg(ctx, p, target)
			require.NoError(t, err)
			require.Equal(t, want, ok)
		}
	})

	t.Run("org tree target missing is denied not failed", func(t *testing.T) {
		p := f.principal(datascope.ScopeOrgTree, f.branch)
		ok, err := f.resolver.CanAccessOrg(ctx, p, uuid.New())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("org is exact match", func(t *testing.T) {
		p := f.principal(datascope.ScopeOrg, f.branch)
		ok, err := f.resolver.CanAccessOrg(ctx, p, f.branch)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = f.resolver.CanAccessOrg(ctx, p, f.leaf)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("self never grants org access", func(t *testing.T) {
		p := f.principal(datascope.ScopeSelf, f.branch)
		ok, err := f.resolver.CanAccessOrg(ctx, p, f.branch)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

// The id-set form, the point-wise check and the predicate must agree for
// every organization.
func TestScopeRepresentationsAgree(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()
	cols := datascope.Columns{Org: "org_id", OrgPath: "org_path"}

	for _, scope := range []datascope.Scope{datascope.ScopeAll, datascope.ScopeOrgTree, datascope.ScopeOrg} {
		p := f.principal(scope, f.branch)

		ids, err := f.resolver.AccessibleOrgIDs(ctx, p)
		require.NoError(t, err)
		accessible := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			accessible[id] = true
		}

		filter, err := f.resolver.Filter(p, cols)
		require.NoError(t, err)

		for id, path := range f.dir.paths {
			ok, err := f.resolver.CanAccessOrg(ctx, p, id)
			require.NoError(t, err)
			require.Equal(t, accessible[id], ok, "scope %s disagrees on %s", scope, path)
			require.Equal(t, ok, filter.Matches(datascope.Target{OrgID: id, OrgPath: path}),
				"predicate for %s disagrees on %s", scope, path)
		}
	}
}

func TestAccessibleOrgIDsSelfIsEmpty(t *testing.T) {
	f := newDirectoryFixture(t)
	p := f.principal(datascope.ScopeSelf, f.branch)
	ids, err := f.resolver.AccessibleOrgIDs(context.Background(), p)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestFilterSelfRequiresOwnerColumn(t *testing.T) {
	f := newDirectoryFixture(t)
	p := f.principal(datascope.ScopeSelf, f.branch)

	_, err := f.resolver.Filter(p, datascope.Columns{Org: "org_id", OrgPath: "org_path"})
	require.Error(t, err)
	require.Equal(t, "SCOPE_OWNER_REQUIRED", serrors.CodeOf(err))

	filter, err := f.resolver.Filter(p, datascope.Columns{Org: "org_id", OrgPath: "org_path", Owner: "created_by"})
	require.NoError(t, err)
	require.True(t, filter.Matches(datascope.Target{OwnerID: p.ID}))
	require.False(t, filter.Matches(datascope.Target{OwnerID: uuid.New()}))
}

func TestUnknownScopeFallsBackRestrictively(t *testing.T) {
	f := newDirectoryFixture(t)
	p := f.principal(datascope.Scope("LEGACY"), f.branch)

	withOwner, err := f.resolver.Filter(p, datascope.Columns{Org: "org_id", OrgPath: "org_path", Owner: "created_by"})
	require.NoError(t, err)
	require.True(t, withOwner.Matches(datascope.Target{OwnerID: p.ID}))
	require.False(t, withOwner.Matches(datascope.Target{OrgID: f.branch, OwnerID: uuid.New()}))

	withoutOwner, err := f.resolver.Filter(p, datascope.Columns{Org: "org_id", OrgPath: "org_path"})
	require.NoError(t, err)
	require.True(t, withoutOwner.Matches(datascope.Target{OrgID: f.branch}))
	require.False(t, withoutOwner.Matches(datascope.Target{OrgID: f.leaf}))
}

func TestFilterSQL(t *testing.T) {
	f := newDirectoryFixture(t)
	cols := datascope.Columns{Org: "org_id", OrgPath: "org_path", Owner: "created_by"}

	all, err := f.resolver.Filter(f.principal(datascope.ScopeAll, f.root), cols)
	require.NoError(t, err)
	require.True(t, all.IsUnrestricted())
	frag, args := all.SQL(1)
	require.Empty(t, frag)
	require.Empty(t, args)

	tree, err := f.resolver.Filter(f.principal(datascope.ScopeOrgTree, f.branch), cols)
	require.NoError(t, err)
	frag, args = tree.SQL(3)
	require.Equal(t, "org_path LIKE $3 || '%'", frag)
	require.Equal(t, []any{f.dir.paths[f.branch]}, args)

	org, err := f.resolver.Filter(f.principal(datascope.ScopeOrg, f.branch), cols)
	require.NoError(t, err)
	frag, args = org.SQL(1)
	require.Equal(t, "org_id = $1", frag)
	require.Equal(t, []any{f.branch}, args)
}

func TestOrganizationFilterCollapsesSelfToOwnOrg(t *testing.T) {
	f := newDirectoryFixture(t)
	cols := datascope.Columns{Org: "id", OrgPath: "path"}

	filter := f.resolver.OrganizationFilter(f.principal(datascope.ScopeSelf, f.branch), cols)
	require.True(t, filter.Matches(datascope.Target{OrgID: f.branch}))
	require.False(t, filter.Matches(datascope.Target{OrgID: f.leaf}))

	filter = f.resolver.OrganizationFilter(f.principal(datascope.ScopeOrgTree, f.branch), cols)
	require.True(t, filter.Matches(datascope.Target{OrgPath: f.dir.paths[f.leaf]}))
	require.False(t, filter.Matches(datascope.Target{OrgPath: f.dir.paths[f.sibling]}))
}
