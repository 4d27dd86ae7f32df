package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/rominswe/pg-progress-sub002/core"
)

// uniqueViolation is the postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// fatalCodes are the postgres SQLSTATEs after which the server will not serve this process again:
// admin_shutdown, crash_shutdown and cannot_connect_now.
var fatalCodes = map[pq.ErrorCode]bool{
	"57P01": true,
	"57P02": true,
	"57P03": true,
}

// wrapErr wraps err with msg, turning a database shutdown into a core shutdown error
// so the API stops gracefully instead of failing every request.
func wrapErr(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && fatalCodes[pqErr.Code] {
		return core.NewShutdownError(msg + ": " + pqErr.Error())
	}
	return errors.Wrap(err, msg)
}

// trapNoRowsErr maps psql "no rows" err to notFound.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return wrapErr(err, msg)
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}
