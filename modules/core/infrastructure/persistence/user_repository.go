package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

const (
	selectUserColumns = `u.id, u.username, u.full_name, u.email, u.org_id, u.active, u.created_at, u.updated_at`

	selectUserByIDQuery = `SELECT ` + selectUserColumns + ` FROM users u WHERE u.id = $1`

	selectUserByUsernameQuery = `SELECT ` + selectUserColumns + ` FROM users u WHERE u.username = $1`

	selectUsersBaseQuery = `
		SELECT ` + selectUserColumns + `
		FROM users u
		JOIN organizations o ON o.id = u.org_id`

	countUsersByOrgQuery = `SELECT COUNT(*) FROM users WHERE org_id = $1`

	insertUserQuery = `
		INSERT INTO users (id, username, full_name, email, org_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateUserQuery = `
		UPDATE users SET username = $2, full_name = $3, email = $4, org_id = $5, active = $6, updated_at = $7
		WHERE id = $1`

	deleteUserRolesQuery = `DELETE FROM user_roles WHERE user_id = $1`

	insertUserRoleQuery = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`

	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	return scanUser(tx.QueryRow(ctx, selectUserByIDQuery, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	return scanUser(tx.QueryRow(ctx, selectUserByUsernameQuery, username))
}

func (r *UserRepository) FindByFilter(ctx context.Context, f datascope.Filter) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := selectUsersBaseQuery
	clause, args := f.SQL(1)
	if clause != "" {
		query += ` WHERE ` + clause
	}
	query += ` ORDER BY u.username`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepository) CountByOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countUsersByOrgQuery, orgID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) Create(ctx context.Context, entity user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	_, err = tx.Exec(ctx, insertUserQuery,
		entity.ID(),
		entity.Username(),
		entity.FullName(),
		entity.Email(),
		entity.OrgID(),
		entity.Active(),
		entity.CreatedAt(),
		entity.UpdatedAt(),
	)
	if err != nil {
		return user.User{}, mapUserError(err)
	}
	return entity, nil
}

func (r *UserRepository) Update(ctx context.Context, entity user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	tag, err := tx.Exec(ctx, updateUserQuery,
		entity.ID(),
		entity.Username(),
		entity.FullName(),
		entity.Email(),
		entity.OrgID(),
		entity.Active(),
		entity.UpdatedAt(),
	)
	if err != nil {
		return user.User{}, mapUserError(err)
	}
	if tag.RowsAffected() == 0 {
		return user.User{}, serrors.NotFound("USER_NOT_FOUND", fmt.Sprintf("user %s not found", entity.ID()))
	}
	return entity, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteUserRolesQuery, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return serrors.NotFound("USER_NOT_FOUND", fmt.Sprintf("user %s not found", id))
	}
	return nil
}

func (r *UserRepository) AssignRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, deleteUserRolesQuery, userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx, insertUserRoleQuery, userID, roleID); err != nil {
			return err
		}
	}
	return nil
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		id        uuid.UUID
		username  string
		fullName  string
		email     string
		orgID     uuid.UUID
		active    bool
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &username, &fullName, &email, &orgID, &active, &createdAt, &updatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, serrors.NotFound("USER_NOT_FOUND", "user not found")
		}
		return user.User{}, err
	}
	return user.Hydrate(id, username, fullName, email, orgID, active, createdAt, updatedAt), nil
}

func scanUsers(rows pgx.Rows) ([]user.User, error) {
	var out []user.User
	for rows.Next() {
		var (
			id        uuid.UUID
			username  string
			fullName  string
			email     string
			orgID     uuid.UUID
			active    bool
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&id, &username, &fullName, &email, &orgID, &active, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		out = append(out, user.Hydrate(id, username, fullName, email, orgID, active, createdAt, updatedAt))
	}
	return out, rows.Err()
}
