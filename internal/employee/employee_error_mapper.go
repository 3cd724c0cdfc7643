package employee

import (
	"errors"

	employeeerrors "leavedesk/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// mapPersistenceError translates driver-level constraint failures into
// the module's error vocabulary.
func mapPersistenceError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return employeeerrors.ErrDuplicateCode
	}
	return err
}
