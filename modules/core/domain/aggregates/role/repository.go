package role

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	FindAll(ctx context.Context) ([]Role, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Role, error)
	CountAssignedUsers(ctx context.Context, id uuid.UUID) (int64, error)
	Create(ctx context.Context, r Role) (Role, error)
	Update(ctx context.Context, r Role) (Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
