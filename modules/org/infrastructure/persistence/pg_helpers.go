package persistence

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

const uniqueViolationCode = "23505"

// mapOrgError translates driver-level constraint failures into the service
// error taxonomy; the organization code carries a unique index.
func mapOrgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return serrors.Conflict("ORG_CODE_TAKEN", "organization code is already in use")
	}
	return err
}
