// Package repository implements the MySQL-backed stores.  Repositories
// report absence and uniqueness conflicts through the sentinel values below
// so services never inspect driver-specific error codes.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique key, such as a
// second check-in for the same user or a second account for the same email.
var ErrDuplicate = errors.New("duplicate entry")

// mysqlDupEntry is the server error number for ER_DUP_ENTRY.
const mysqlDupEntry = 1062

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}
