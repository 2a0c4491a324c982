package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when a user with the same e-mail already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrStatusConflict is returned by a conditional status update whose expected status no longer holds.
	ErrStatusConflict = errors.New("quote status changed concurrently")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
