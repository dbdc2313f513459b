// Package repository defines error types that are reused across multiple
// repositories. Lookups by primary key that find nothing return an error
// satisfying errors.Is(err, errors.NotFound) from github.com/juju/errors, so
// the permission gate and the handlers can classify it without depending on
// the driver.
package repository

import (
	"github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
	"github.com/mattn/go-sqlite3"
)

// ErrConflict is returned when an insert or update violates a unique key,
// such as granting the same access to a user twice. Handlers should
// translate this into an HTTP 409 response.
const ErrConflict = errors.ConstError("conflict")

const (
	// mysqlDuplicateEntry is ER_DUP_ENTRY.
	mysqlDuplicateEntry = 1062
	// mysqlNoReferencedRow and mysqlNoReferencedRow2 are raised when a
	// foreign key names a missing parent row.
	mysqlNoReferencedRow  = 1216
	mysqlNoReferencedRow2 = 1452
)

// isDuplicate reports whether err is a unique key violation from either
// supported driver.
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// isMissingReference reports whether err is a foreign key violation on
// insert or update, i.e. the row points at a parent that does not exist.
func isMissingReference(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow || myErr.Number == mysqlNoReferencedRow2
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// translate maps driver errors onto repository errors: unique violations
// become ErrConflict and dangling references a NotValid error.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if isDuplicate(err) {
		return errors.Annotatef(ErrConflict, format, args...)
	}
	if isMissingReference(err) {
		return errors.NotValidf(format+" referencing a missing row", args...)
	}
	return errors.Annotatef(err, format, args...)
}
