// Package repository holds the MySQL-backed stores and the sentinel errors
// they share.  Handlers use the sentinels to pick a status code without
// looking at driver errors: ErrNotFound maps to 404, ErrForbidden to 403
// and ErrConflict (plus the more specific duplicate errors) to 409.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with existing state, such
// as a duplicate friendship edge.
var ErrConflict = errors.New("conflict")

var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound folds sql.ErrNoRows into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
