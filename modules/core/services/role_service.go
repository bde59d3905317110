package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/modules/core/permissions"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

// RoleService manages the role catalog. System roles are seeded and protected
// from rename and deletion; permission codes are validated against the
// registered set before they are stored.
type RoleService struct {
	repo role.Repository
}

func NewRoleService(repo role.Repository) *RoleService {
	return &RoleService{repo: repo}
}

func (s *RoleService) List(ctx context.Context) ([]role.Role, error) {
	return s.repo.FindAll(ctx)
}

func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (role.Role, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RoleService) Create(ctx context.Context, dto role.CreateDTO) (role.Role, error) {
	dto.Normalize()
	if !dto.DataScope.Valid() {
		return role.Role{}, serrors.BadRequest("ROLE_SCOPE_INVALID", fmt.Sprintf("unknown data scope %q", dto.DataScope))
	}
	if err := validatePermissions(dto.Permissions); err != nil {
		return role.Role{}, err
	}

	var created role.Role
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if existing, err := s.repo.GetByName(txCtx, dto.Name); err == nil && !existing.IsZero() {
			return serrors.Conflict("ROLE_NAME_TAKEN", fmt.Sprintf("role %q already exists", dto.Name))
		} else if err != nil && !serrors.IsNotFound(err) {
			return err
		}
		var err error
		created, err = s.repo.Create(txCtx, role.New(dto.Name, dto.Description, dto.DataScope, dto.Permissions))
		return err
	})
	if err != nil {
		return role.Role{}, err
	}
	composables.UseLogger(ctx).WithField("role", created.Name()).Info("role created")
	return created, nil
}

func (s *RoleService) Update(ctx context.Context, id uuid.UUID, dto role.UpdateDTO) (role.Role, error) {
	var updated role.Role
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.IsSystem() && dto.Name != nil && *dto.Name != existing.Name() {
			return serrors.Conflict("ROLE_SYSTEM_IMMUTABLE", "system roles cannot be renamed")
		}

		name := existing.Name()
		if dto.Name != nil {
			name = *dto.Name
		}
		description := existing.Description()
		if dto.Description != nil {
			description = *dto.Description
		}
		scope := existing.DataScope()
		if dto.DataScope != nil {
			if !dto.DataScope.Valid() {
				return serrors.BadRequest("ROLE_SCOPE_INVALID", fmt.Sprintf("unknown data scope %q", *dto.DataScope))
			}
			scope = *dto.DataScope
		}
		next := existing.WithDetails(name, description, scope)
		if dto.Permissions != nil {
			if err := validatePermissions(*dto.Permissions); err != nil {
				return err
			}
			next = next.WithPermissions(*dto.Permissions)
		}
		updated, err = s.repo.Update(txCtx, next)
		return err
	})
	if err != nil {
		return role.Role{}, err
	}
	return updated, nil
}

func (s *RoleService) Remove(ctx context.Context, id uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.IsSystem() {
			return serrors.Conflict("ROLE_SYSTEM_IMMUTABLE", "system roles cannot be deleted")
		}
		assigned, err := s.repo.CountAssignedUsers(txCtx, id)
		if err != nil {
			return err
		}
		if assigned > 0 {
			return serrors.PreconditionFailed(
				"ROLE_ASSIGNED",
				fmt.Sprintf("role %q is assigned to %d user(s)", existing.Name(), assigned),
			)
		}
		return s.repo.Delete(txCtx, id)
	})
}

func validatePermissions(codes []string) error {
	for _, code := range codes {
		if !permissions.Known(code) {
			return serrors.BadRequest("PERMISSION_UNKNOWN", fmt.Sprintf("unknown permission %q", code))
		}
	}
	return nil
}
