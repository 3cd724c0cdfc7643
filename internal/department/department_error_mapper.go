package department

import (
	"errors"
	"net/http"

	"leavedesk/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrDuplicateName = apperror.New(
	apperror.CodeConflict,
	"department name already exists",
	http.StatusConflict,
)

func mapRepoError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	return err
}
