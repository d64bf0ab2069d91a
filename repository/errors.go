package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the repositories translate into domain errors.
const (
	mysqlErrDuplicateEntry      = 1062
	mysqlErrForeignKeyViolation = 1452
)

// Sentinel storage errors. Services map these onto the user-facing taxonomy.
var (
	// ErrDuplicateEntry reports a unique-constraint violation.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrForeignKeyViolation reports an insert/update referencing a missing row.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// translateMySQLError converts known MySQL failure codes into the sentinel
// errors above. Unrecognized errors propagate unchanged.
func translateMySQLError(err error) error {
	if err == nil {
		return nil
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDuplicateEntry:
			return ErrDuplicateEntry
		case mysqlErrForeignKeyViolation:
			return ErrForeignKeyViolation
		}
	}
	return err
}
