package shortener

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const shortCodeUniqueConstraint = "short_links_short_code_unique"

func isShortCodeUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == shortCodeUniqueConstraint
}
