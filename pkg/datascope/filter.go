package datascope

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/pkg/orgpath"
)

// Columns names the entity columns a Filter renders against. Owner is
// optional; leaving it empty makes SELF scope a configuration error.
type Columns struct {
	Org     string
	OrgPath string
	Owner   string
}

type filterKind int

const (
	filterAll filterKind = iota
	filterPathPrefix
	filterOrgEquals
	filterOwnerEquals
)

// Filter is the declarative authorization predicate produced by the
// Resolver. It renders both as a SQL fragment and as an in-memory match;
// both derive from the same variant so the two representations cannot
// diverge.
type Filter struct {
	kind    filterKind
	columns Columns
	path    string
	orgID   uuid.UUID
	ownerID uuid.UUID
}

func unrestrictedFilter() Filter {
	return Filter{kind: filterAll}
}

func pathPrefixFilter(cols Columns, prefix string) Filter {
	return Filter{kind: filterPathPrefix, columns: cols, path: prefix}
}

func orgEqualsFilter(cols Columns, orgID uuid.UUID) Filter {
	return Filter{kind: filterOrgEquals, columns: cols, orgID: orgID}
}

func ownerEqualsFilter(cols Columns, ownerID uuid.UUID) Filter {
	return Filter{kind: filterOwnerEquals, columns: cols, ownerID: ownerID}
}

// IsUnrestricted reports whether the filter imposes no restriction (ALL
// scope). Callers may skip appending a WHERE clause entirely.
func (f Filter) IsUnrestricted() bool { return f.kind == filterAll }

// SQL renders the predicate as a parameterized fragment. argIndex is the
// 1-based position of the first placeholder. An unrestricted filter renders
// as the empty string with no arguments.
func (f Filter) SQL(argIndex int) (string, []any) {
	switch f.kind {
	case filterAll:
		return "", nil
	case filterPathPrefix:
		// Path segments are UUIDs, so the prefix can never contain LIKE
		// metacharacters.
		return fmt.Sprintf("%s LIKE $%d || '%%'", f.columns.OrgPath, argIndex), []any{f.path}
	case filterOrgEquals:
		return fmt.Sprintf("%s = $%d", f.columns.Org, argIndex), []any{f.orgID}
	case filterOwnerEquals:
		return fmt.Sprintf("%s = $%d", f.columns.Owner, argIndex), []any{f.ownerID}
	default:
		panic(fmt.Sprintf("datascope: unhandled filter kind %d", f.kind))
	}
}

// Target carries the authorization-relevant fields of a single row for
// point-wise evaluation.
type Target struct {
	OrgID   uuid.UUID
	OrgPath string
	OwnerID uuid.UUID
}

// Matches evaluates the predicate against a single row.
func (f Filter) Matches(t Target) bool {
	switch f.kind {
	case filterAll:
		return true
	case filterPathPrefix:
		return orgpath.IsDescendantOrSelf(t.OrgPath, f.path)
	case filterOrgEquals:
		return t.OrgID == f.orgID
	case filterOwnerEquals:
		return t.OwnerID == f.ownerID
	default:
		panic(fmt.Sprintf("datascope: unhandled filter kind %d", f.kind))
	}
}
