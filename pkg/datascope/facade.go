package datascope

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

// Facade is the single authorization entry point other subsystems call:
// build a query filter before listing, or gate a mutation against a specific
// organization. Callers compose it explicitly instead of inheriting scope
// behavior from a shared base type.
type Facade struct {
	resolver *Resolver
	logger   *logrus.Entry
}

func NewFacade(resolver *Resolver, logger *logrus.Logger) *Facade {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Facade{
		resolver: resolver,
		logger:   logger.WithField("component", "authz-facade"),
	}
}

// FilterFor returns the row-level predicate for the principal over an entity
// keyed by cols.
func (f *Facade) FilterFor(ctx context.Context, p Principal, cols Columns) (Filter, error) {
	filter, err := f.resolver.Filter(p, cols)
	if err != nil {
		recordDecision("filter", p.Scope, false)
		return Filter{}, err
	}
	recordDecision("filter", p.Scope, true)
	return filter, nil
}

// AccessibleOrgIDs exposes the explicit id-set form for callers that build
// IN-lists or UI trees.
func (f *Facade) AccessibleOrgIDs(ctx context.Context, p Principal) ([]uuid.UUID, error) {
	return f.resolver.AccessibleOrgIDs(ctx, p)
}

// OrganizationFilter returns the predicate used when listing organizations
// themselves; see Resolver.OrganizationFilter for the SELF collapse.
func (f *Facade) OrganizationFilter(p Principal, cols Columns) Filter {
	return f.resolver.OrganizationFilter(p, cols)
}

// AssertCanAccessOrg returns a Forbidden error when the principal's scope
// does not cover orgID. ALL bypasses the per-org check uniformly, including
// creation under arbitrary parents.
func (f *Facade) AssertCanAccessOrg(ctx context.Context, p Principal, orgID uuid.UUID) error {
	if p.Scope == ScopeAll {
		recordDecision("access_org", p.Scope, true)
		return nil
	}
	ok, err := f.resolver.CanAccessOrg(ctx, p, orgID)
	if err != nil {
		return err
	}
	recordDecision("access_org", p.Scope, ok)
	if !ok {
		f.logger.WithFields(logrus.Fields{
			"principal": p.ID,
			"scope":     p.Scope,
			"org":       orgID,
		}).Warn("organization access denied")
		return serrors.Forbidden("ORG_ACCESS_DENIED", "no access to the target organization")
	}
	return nil
}

// AssertCanMutateOrg gates structural mutations. For a move both the node
// being moved and the destination parent must pass.
func (f *Facade) AssertCanMutateOrg(ctx context.Context, p Principal, orgIDs ...uuid.UUID) error {
	for _, orgID := range orgIDs {
		if err := f.AssertCanAccessOrg(ctx, p, orgID); err != nil {
			return err
		}
	}
	return nil
}
