package asset

import (
	"errors"

	asseterr "leavedesk/internal/asset/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

func mapRepoError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return asseterr.ErrDuplicateTag
	}
	return err
}
