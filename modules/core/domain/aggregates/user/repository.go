package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/pkg/datascope"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	FindByFilter(ctx context.Context, f datascope.Filter) ([]User, error)
	CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error
}
