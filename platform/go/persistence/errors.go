package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared across stores. Domain services translate these to
// their own sentinels before they reach handlers.
var (
	ErrOrgNotFound      = errors.New("organization not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserConflict     = errors.New("user conflict")
	ErrPropertyNotFound = errors.New("property not found")
	ErrTenancyNotFound  = errors.New("tenancy not found")
	ErrRequestNotFound  = errors.New("maintenance request not found")
	ErrVisitorNotFound  = errors.New("visitor log not found")
	ErrVisitorExited    = errors.New("visitor already exited")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
