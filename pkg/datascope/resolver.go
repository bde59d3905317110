package datascope

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/atlas-hq/atlas-admin/pkg/orgpath"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

// OrgDirectory is the read-only view of the organization tree the resolver
// needs for subtree lookups. Implemented by the organization repository.
type OrgDirectory interface {
	PathByID(ctx context.Context, id uuid.UUID) (string, error)
	IDsByPathPrefix(ctx context.Context, prefix string) ([]uuid.UUID, error)
	AllIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Resolver converts a principal's effective scope into concrete access
// decisions: a query predicate, an explicit organization id set, or a
// point-wise check.
type Resolver struct {
	orgs   OrgDirectory
	logger *logrus.Entry
}

func NewResolver(orgs OrgDirectory, logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{
		orgs:   orgs,
		logger: logger.WithField("component", "datascope"),
	}
}

// Filter produces the row-level predicate for the principal over an entity
// keyed by cols. SELF scope requires cols.Owner; requesting it without one
// is a caller configuration error, not a data error.
func (r *Resolver) Filter(p Principal, cols Columns) (Filter, error) {
	switch p.Scope {
	case ScopeAll:
		return unrestrictedFilter(), nil
	case ScopeOrgTree:
		return pathPrefixFilter(cols, p.OrgPath), nil
	case ScopeOrg:
		return orgEqualsFilter(cols, p.OrgID), nil
	case ScopeSelf:
		if cols.Owner == "" {
			return Filter{}, serrors.BadRequest("SCOPE_OWNER_REQUIRED", "SELF scope requires an owner column")
		}
		return ownerEqualsFilter(cols, p.ID), nil
	default:
		// Reachable only through data corruption or a future enum value.
		// Downgrade to the most restrictive option available and make noise.
		r.logger.WithField("scope", p.Scope).Warn("unknown data scope, falling back to most restrictive filter")
		if cols.Owner != "" {
			return ownerEqualsFilter(cols, p.ID), nil
		}
		return orgEqualsFilter(cols, p.OrgID), nil
	}
}

// OrganizationFilter is the predicate used when listing organizations
// themselves. SELF collapses to the principal's own organization here: an
// org listing has no owner column, and a user can always see where they sit.
func (r *Resolver) OrganizationFilter(p Principal, cols Columns) Filter {
	switch p.Scope {
	case ScopeAll:
		return unrestrictedFilter()
	case ScopeOrgTree:
		return pathPrefixFilter(cols, p.OrgPath)
	default:
		return orgEqualsFilter(cols, p.OrgID)
	}
}

// AccessibleOrgIDs enumerates the organizations the principal's scope
// covers, for callers that need an explicit IN-list rather than a predicate.
// SELF is not an org-keyed scope and yields the empty set.
func (r *Resolver) AccessibleOrgIDs(ctx context.Context, p Principal) ([]uuid.UUID, error) {
	switch p.Scope {
	case ScopeAll:
		return r.orgs.AllIDs(ctx)
	case ScopeOrgTree:
		return r.orgs.IDsByPathPrefix(ctx, p.OrgPath)
	case ScopeOrg:
		return []uuid.UUID{p.OrgID}, nil
	case ScopeSelf:
		return nil, nil
	default:
		r.logger.WithField("scope", p.Scope).Warn("unknown data scope, falling back to own organization")
		return []uuid.UUID{p.OrgID}, nil
	}
}

// CanAccessOrg answers the point-wise question "may p act on this
// organization". A missing target under ORG_TREE is an access failure, not a
// lookup failure.
func (r *Resolver) CanAccessOrg(ctx context.Context, p Principal, targetOrgID uuid.UUID) (bool, error) {
	switch p.Scope {
	case ScopeAll:
		return true, nil
	case ScopeOrgTree:
		path, err := r.orgs.PathByID(ctx, targetOrgID)
		if err != nil {
			if serrors.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return orgpath.IsDescendantOrSelf(path, p.OrgPath), nil
	case ScopeOrg:
		return targetOrgID == p.OrgID, nil
	case ScopeSelf:
		// Organization-level access is undefined for SELF scope.
		return false, nil
	default:
		r.logger.WithField("scope", p.Scope).Warn("unknown data scope, falling back to own-organization check")
		return targetOrgID == p.OrgID, nil
	}
}
