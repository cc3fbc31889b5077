package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation from
// postgres (pgx or pq) or sqlite. When hints are given, the violation must also
// mention one of them (constraint name or column), so callers can tell which
// unique index fired.
func IsUniqueViolation(err error, hints ...string) bool {
	if err == nil {
		return false
	}

	var detail string
	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		if pgxErr.Code != pgUniqueViolation {
			return false
		}
		detail = pgxErr.ConstraintName + " " + pgxErr.Message + " " + pgxErr.Detail
	case errors.As(err, &pqErr):
		if string(pqErr.Code) != pgUniqueViolation {
			return false
		}
		detail = pqErr.Constraint + " " + pqErr.Message + " " + pqErr.Detail
	default:
		msg := err.Error()
		if !strings.Contains(msg, "duplicate key value") &&
			!strings.Contains(msg, "UNIQUE constraint failed") &&
			!errors.Is(err, gorm.ErrDuplicatedKey) {
			return false
		}
		detail = msg
	}

	if len(hints) == 0 {
		return true
	}
	for _, hint := range hints {
		if hint != "" && strings.Contains(detail, hint) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
