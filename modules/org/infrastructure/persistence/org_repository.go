package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/atlas-hq/atlas-admin/modules/org/domain/aggregates/organization"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

const (
	selectOrgColumns = `id, name, code, parent_id, path, level, sort_order, created_at, updated_at`

	selectOrgByIDQuery = `
SELECT ` + selectOrgColumns + `
FROM organizations
WHERE id = $1`

	selectOrgByCodeQuery = `
SELECT ` + selectOrgColumns + `
FROM organizations
WHERE code = $1`

	selectAllOrgsQuery = `
SELECT ` + selectOrgColumns + `
FROM organizations
ORDER BY level ASC, sort_order ASC, name ASC`

	selectOrgsByPathPrefixQuery = `
SELECT ` + selectOrgColumns + `
FROM organizations
WHERE path LIKE $1 || '%'
ORDER BY level ASC`

	countChildrenQuery = `
SELECT COUNT(*) FROM organizations WHERE parent_id = $1`

	insertOrgQuery = `
INSERT INTO organizations (name, code, parent_id, path, level, sort_order)
VALUES ($1, $2, $3, '', 0, $4)
RETURNING ` + selectOrgColumns

	updateOrgQuery = `
UPDATE organizations
SET name = $2, code = $3, parent_id = $4, path = $5, level = $6, sort_order = $7, updated_at = NOW()
WHERE id = $1
RETURNING ` + selectOrgColumns

	updatePlacementQuery = `
UPDATE organizations
SET path = $2, level = $3, updated_at = NOW()
WHERE id = $1`

	deleteOrgQuery = `
DELETE FROM organizations WHERE id = $1`

	selectPathByIDQuery = `
SELECT path FROM organizations WHERE id = $1`

	selectIDsByPathPrefixQuery = `
SELECT id FROM organizations WHERE path LIKE $1 || '%'`

	selectAllIDsQuery = `
SELECT id FROM organizations`
)

type OrgRepository struct{}

func NewOrgRepository() *OrgRepository {
	return &OrgRepository{}
}

func (r *OrgRepository) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	return scanOrg(tx.QueryRow(ctx, selectOrgByIDQuery, id))
}

func (r *OrgRepository) GetByCode(ctx context.Context, code string) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	return scanOrg(tx.QueryRow(ctx, selectOrgByCodeQuery, code))
}

func (r *OrgRepository) FindAll(ctx context.Context) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectAllOrgsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "listing organizations")
	}
	return scanOrgs(rows)
}

func (r *OrgRepository) FindByFilter(ctx context.Context, filter datascope.Filter) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := selectAllOrgsQuery
	var args []any
	if !filter.IsUnrestricted() {
		frag, fragArgs := filter.SQL(1)
		query = `
SELECT ` + selectOrgColumns + `
FROM organizations
WHERE ` + frag + `
ORDER BY level ASC, sort_order ASC, name ASC`
		args = fragArgs
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "listing accessible organizations")
	}
	return scanOrgs(rows)
}

func (r *OrgRepository) FindByPathPrefix(ctx context.Context, prefix string) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectOrgsByPathPrefixQuery, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "listing organization subtree")
	}
	return scanOrgs(rows)
}

func (r *OrgRepository) CountChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, countChildrenQuery, parentID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting child organizations")
	}
	return count, nil
}

func (r *OrgRepository) Create(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	created, err := scanOrg(tx.QueryRow(ctx, insertOrgQuery, o.Name(), o.Code(), o.ParentID(), o.SortOrder()))
	if err != nil {
		return organization.Organization{}, mapOrgError(err)
	}
	return created, nil
}

func (r *OrgRepository) Update(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}
	updated, err := scanOrg(tx.QueryRow(
		ctx, updateOrgQuery,
		o.ID(), o.Name(), o.Code(), o.ParentID(), o.Path(), o.Level(), o.SortOrder(),
	))
	if err != nil {
		return organization.Organization{}, mapOrgError(err)
	}
	return updated, nil
}

func (r *OrgRepository) UpdatePlacements(ctx context.Context, changes []organization.PlacementChange) error {
	if len(changes) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, change := range changes {
		tag, err := tx.Exec(ctx, updatePlacementQuery, change.ID, change.Path, change.Level)
		if err != nil {
			return errors.Wrap(err, "rewriting organization placement")
		}
		if tag.RowsAffected() == 0 {
			return serrors.NotFound("ORG_NOT_FOUND", "organization not found")
		}
	}
	return nil
}

func (r *OrgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, deleteOrgQuery, id)
	if err != nil {
		return errors.Wrap(err, "deleting organization")
	}
	if tag.RowsAffected() == 0 {
		return serrors.NotFound("ORG_NOT_FOUND", "organization not found")
	}
	return nil
}

func (r *OrgRepository) PathByID(ctx context.Context, id uuid.UUID) (string, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return "", err
	}
	var path string
	if err := tx.QueryRow(ctx, selectPathByIDQuery, id).Scan(&path); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", serrors.NotFound("ORG_NOT_FOUND", "organization not found")
		}
		return "", errors.Wrap(err, "resolving organization path")
	}
	return path, nil
}

func (r *OrgRepository) IDsByPathPrefix(ctx context.Context, prefix string) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectIDsByPathPrefixQuery, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "listing subtree organization ids")
	}
	return scanIDs(rows)
}

func (r *OrgRepository) AllIDs(ctx context.Context) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectAllIDsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "listing organization ids")
	}
	return scanIDs(rows)
}

func scanOrg(row pgx.Row) (organization.Organization, error) {
	var (
		id        uuid.UUID
		name      string
		code      string
		parentID  *uuid.UUID
		path      string
		level     int
		sortOrder int
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &code, &parentID, &path, &level, &sortOrder, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, serrors.NotFound("ORG_NOT_FOUND", "organization not found")
		}
		return organization.Organization{}, errors.Wrap(err, "scanning organization")
	}
	return organization.Hydrate(id, name, code, parentID, path, level, sortOrder, createdAt, updatedAt), nil
}

func scanOrgs(rows pgx.Rows) ([]organization.Organization, error) {
	defer rows.Close()
	out := make([]organization.Organization, 0, 64)
	for rows.Next() {
		org, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func scanIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()
	out := make([]uuid.UUID, 0, 64)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
