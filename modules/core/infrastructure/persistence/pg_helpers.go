package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atlas-hq/atlas-admin/pkg/serrors"
)

const uniqueViolation = "23505"

func mapRoleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return serrors.Conflict("ROLE_NAME_TAKEN", "a role with this name already exists")
	}
	return err
}

func mapUserError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return serrors.Conflict("USERNAME_TAKEN", "a user with this username already exists")
	}
	return err
}
