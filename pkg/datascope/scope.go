package datascope

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Scope is the data-visibility granularity attached to a role. The four
// values form a total order: ALL > ORG_TREE > ORG > SELF.
type Scope string

const (
	ScopeAll     Scope = "ALL"
	ScopeOrgTree Scope = "ORG_TREE"
	ScopeOrg     Scope = "ORG"
	ScopeSelf    Scope = "SELF"
)

func (s Scope) rank() int {
	switch s {
	case ScopeAll:
		return 4
	case ScopeOrgTree:
		return 3
	case ScopeOrg:
		return 2
	case ScopeSelf:
		return 1
	default:
		return 0
	}
}

func (s Scope) Valid() bool { return s.rank() > 0 }

func (s Scope) String() string { return string(s) }

// Parse maps the stored representation onto a Scope, rejecting unknown values.
func Parse(raw string) (Scope, error) {
	s := Scope(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown data scope: %q", raw)
	}
	return s, nil
}

// Max returns the less restrictive of the two scopes. Unknown values rank
// below SELF so corrupted data can never widen access.
func Max(a, b Scope) Scope {
	if a.rank() >= b.rank() {
		return a
	}
	return b
}

// Fold reduces a role's scope list to the effective scope, with SELF as the
// identity. An empty list therefore yields SELF.
func Fold(scopes []Scope) Scope {
	effective := ScopeSelf
	for _, s := range scopes {
		effective = Max(effective, s)
	}
	return effective
}

// Principal is the runtime authorization context derived from an
// authenticated session. It is recomputed on every request and never
// persisted.
type Principal struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	OrgPath     string
	Scope       Scope
	Permissions map[string]struct{}
}

// NewPermissionSet builds the permission lookup from the union of role
// permission codes.
func NewPermissionSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		set[code] = struct{}{}
	}
	return set
}

func (p Principal) HasPermission(code string) bool {
	_, ok := p.Permissions[code]
	return ok
}
