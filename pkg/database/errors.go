package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate into domain errors.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// ConstraintViolation returns the violated constraint name when err is a
// Postgres error with the given SQLSTATE.
func ConstraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func IsUniqueViolation(err error) bool {
	_, ok := ConstraintViolation(err, CodeUniqueViolation)
	return ok
}

func IsForeignKeyViolation(err error) bool {
	_, ok := ConstraintViolation(err, CodeForeignKeyViolation)
	return ok
}
