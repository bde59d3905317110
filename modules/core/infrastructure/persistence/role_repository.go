package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

const (
	selectRoleColumns = `r.id, r.name, r.description, r.data_scope, r.is_system, r.created_at, r.updated_at`

	selectRoleByIDQuery = `SELECT ` + selectRoleColumns + ` FROM roles r WHERE r.id = $1`

	selectRoleByNameQuery = `SELECT ` + selectRoleColumns + ` FROM roles r WHERE r.name = $1`

	selectAllRolesQuery = `SELECT ` + selectRoleColumns + ` FROM roles r ORDER BY r.is_system DESC, r.name`

	selectRolesByUserQuery = `
		SELECT ` + selectRoleColumns + `
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`

	selectRolePermissionsQuery = `SELECT role_id, permission FROM role_permissions WHERE role_id = ANY($1)`

	countAssignedUsersQuery = `SELECT COUNT(*) FROM user_roles WHERE role_id = $1`

	insertRoleQuery = `
		INSERT INTO roles (id, name, description, data_scope, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateRoleQuery = `
		UPDATE roles SET name = $2, description = $3, data_scope = $4, updated_at = $5
		WHERE id = $1`

	insertRolePermissionQuery = `INSERT INTO role_permissions (role_id, permission) VALUES ($1, $2)`

	deleteRolePermissionsQuery = `DELETE FROM role_permissions WHERE role_id = $1`

	deleteRoleQuery = `DELETE FROM roles WHERE id = $1`
)

type RoleRepository struct{}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{}
}

func (r *RoleRepository) GetByID(ctx context.Context, id uuid.UUID) (role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return role.Role{}, err
	}
	return r.scanRoleWithPerms(ctx, tx.QueryRow(ctx, selectRoleByIDQuery, id))
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return role.Role{}, err
	}
	return r.scanRoleWithPerms(ctx, tx.QueryRow(ctx, selectRoleByNameQuery, name))
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]role.Role, error) {
	return r.queryRoles(ctx, selectAllRolesQuery)
}

func (r *RoleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]role.Role, error) {
	return r.queryRoles(ctx, selectRolesByUserQuery, userID)
}

func (r *RoleRepository) CountAssignedUsers(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countAssignedUsersQuery, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RoleRepository) Create(ctx context.Context, entity role.Role) (role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return role.Role{}, err
	}
	_, err = tx.Exec(ctx, insertRoleQuery,
		entity.ID(),
		entity.Name(),
		entity.Description(),
		string(entity.DataScope()),
		entity.IsSystem(),
		entity.CreatedAt(),
		entity.UpdatedAt(),
	)
	if err != nil {
		return role.Role{}, mapRoleError(err)
	}
	if err := r.replacePermissions(ctx, entity.ID(), entity.Permissions()); err != nil {
		return role.Role{}, err
	}
	return entity, nil
}

func (r *RoleRepository) Update(ctx context.Context, entity role.Role) (role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return role.Role{}, err
	}
	tag, err := tx.Exec(ctx, updateRoleQuery,
		entity.ID(),
		entity.Name(),
		entity.Description(),
		string(entity.DataScope()),
		entity.UpdatedAt(),
	)
	if err != nil {
		return role.Role{}, mapRoleError(err)
	}
	if tag.RowsAffected() == 0 {
		return role.Role{}, serrors.NotFound("ROLE_NOT_FOUND", fmt.Sprintf("role %s not found", entity.ID()))
	}
	if err := r.replacePermissions(ctx, entity.ID(), entity.Permissions()); err != nil {
		return role.Role{}, err
	}
	return entity, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteRolePermissionsQuery, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteRoleQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return serrors.NotFound("ROLE_NOT_FOUND", fmt.Sprintf("role %s not found", id))
	}
	return nil
}

func (r *RoleRepository) replacePermissions(ctx context.Context, roleID uuid.UUID, codes []string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteRolePermissionsQuery, roleID); err != nil {
		return err
	}
	for _, code := range codes {
		if _, err := tx.Exec(ctx, insertRolePermissionQuery, roleID, code); err != nil {
			return err
		}
	}
	return nil
}

func (r *RoleRepository) queryRoles(ctx context.Context, query string, args ...any) ([]role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type rawRole struct {
		id          uuid.UUID
		name        string
		description string
		scope       string
		isSystem    bool
		createdAt   time.Time
		updatedAt   time.Time
	}
	var raws []rawRole
	for rows.Next() {
		var rr rawRole
		if err := rows.Scan(&rr.id, &rr.name, &rr.description, &rr.scope, &rr.isSystem, &rr.createdAt, &rr.updatedAt); err != nil {
			return nil, err
		}
		raws = append(raws, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(raws))
	for i, rr := range raws {
		ids[i] = rr.id
	}
	perms, err := r.permissionsByRole(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]role.Role, len(raws))
	for i, rr := range raws {
		out[i] = role.Hydrate(rr.id, rr.name, rr.description, datascope.Scope(rr.scope), rr.isSystem, perms[rr.id], rr.createdAt, rr.updatedAt)
	}
	return out, nil
}

func (r *RoleRepository) permissionsByRole(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectRolePermissionsQuery, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var roleID uuid.UUID
		var code string
		if err := rows.Scan(&roleID, &code); err != nil {
			return nil, err
		}
		out[roleID] = append(out[roleID], code)
	}
	return out, rows.Err()
}

func (r *RoleRepository) scanRoleWithPerms(ctx context.Context, row pgx.Row) (role.Role, error) {
	var (
		id          uuid.UUID
		name        string
		description string
		scope       string
		isSystem    bool
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &name, &description, &scope, &isSystem, &createdAt, &updatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return role.Role{}, serrors.NotFound("ROLE_NOT_FOUND", "role not found")
		}
		return role.Role{}, err
	}
	perms, err := r.permissionsByRole(ctx, []uuid.UUID{id})
	if err != nil {
		return role.Role{}, err
	}
	return role.Hydrate(id, name, description, datascope.Scope(scope), isSystem, perms[id], createdAt, updatedAt), nil
}
