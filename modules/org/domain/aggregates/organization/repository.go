package organization

import (
	"context"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/pkg/datascope"
)

// PlacementChange is one row of a cascading path/level rewrite. All changes
// of a move are applied inside a single transaction; a partially applied
// rewrite corrupts the tree.
type PlacementChange struct {
	ID    uuid.UUID
	Path  string
	Level int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Organization, error)
	GetByCode(ctx context.Context, code string) (Organization, error)
	FindAll(ctx context.Context) ([]Organization, error)
	FindByFilter(ctx context.Context, filter datascope.Filter) ([]Organization, error)
	FindByPathPrefix(ctx context.Context, prefix string) ([]Organization, error)
	CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error)

	// Create inserts the record and returns it with the storage-assigned id;
	// the caller computes and persists the path afterwards.
	Create(ctx context.Context, o Organization) (Organization, error)
	Update(ctx context.Context, o Organization) (Organization, error)
	UpdatePlacements(ctx context.Context, changes []PlacementChange) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Read-only directory view consumed by the scope resolver.
	datascope.OrgDirectory
}

// DependentCounter reports how many external records (users, typically)
// reference an organization. A non-zero count blocks deletion.
type DependentCounter interface {
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}
