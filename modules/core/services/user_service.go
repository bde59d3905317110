package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

// userListingColumns names the columns the user listing query filters on.
// The org path comes from the organizations join.
var userListingColumns = datascope.Columns{
	Org:     "u.org_id",
	OrgPath: "o.path",
	Owner:   "u.id",
}

type UserService struct {
	repo  user.Repository
	roles role.Repository
	authz *datascope.Facade
}

func NewUserService(repo user.Repository, roles role.Repository, authz *datascope.Facade) *UserService {
	return &UserService{repo: repo, roles: roles, authz: authz}
}

// ListAccessible returns the users visible under the principal's data scope.
func (s *UserService) ListAccessible(ctx context.Context, p datascope.Principal) ([]user.User, error) {
	f, err := s.authz.FilterFor(ctx, p, userListingColumns)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByFilter(ctx, f)
}

func (s *UserService) GetByID(ctx context.Context, p datascope.Principal, id uuid.UUID) (user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if err := s.authz.AssertCanAccessOrg(ctx, p, u.OrgID()); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, p datascope.Principal, dto user.CreateDTO) (user.User, error) {
	dto.Normalize()
	var created user.User
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.authz.AssertCanAccessOrg(txCtx, p, dto.OrgID); err != nil {
			return err
		}
		if existing, err := s.repo.GetByUsername(txCtx, dto.Username); err == nil && !existing.IsZero() {
			return serrors.Conflict("USERNAME_TAKEN", fmt.Sprintf("username %q already exists", dto.Username))
		} else if err != nil && !serrors.IsNotFound(err) {
			return err
		}
		var err error
		created, err = s.repo.Create(txCtx, user.New(dto.Username, dto.FullName, dto.Email, dto.OrgID))
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	composables.UseLogger(ctx).WithField("user", created.Username()).Info("user created")
	return created, nil
}

// AssignRoles replaces the user's role set after checking every role exists.
func (s *UserService) AssignRoles(ctx context.Context, p datascope.Principal, userID uuid.UUID, roleIDs []uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		u, err := s.repo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if err := s.authz.AssertCanAccessOrg(txCtx, p, u.OrgID()); err != nil {
			return err
		}
		for _, id := range roleIDs {
			if _, err := s.roles.GetByID(txCtx, id); err != nil {
				return err
			}
		}
		return s.repo.AssignRoles(txCtx, userID, roleIDs)
	})
}

func (s *UserService) Remove(ctx context.Context, p datascope.Principal, id uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		u, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.authz.AssertCanAccessOrg(txCtx, p, u.OrgID()); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
}
