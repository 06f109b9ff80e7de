package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound indicates a missing row under the caller's scope. Stores return
// it both for absent ids and for rows owned by someone else, so callers cannot
// distinguish the two cases.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indicates a uniqueness conflict, e.g. linking an identity that
// is already a member of a company.
var ErrDuplicate = errors.New("record already exists")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
