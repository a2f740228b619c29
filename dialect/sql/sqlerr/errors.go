// Package sqlerr classifies execution-time database errors.
//
// The statement compiler does not retry or swallow errors. When a compiled
// statement carries the SuppressConstraintErrors hint (ignore-on-conflict was
// requested on a dialect without an ignore modifier), the execution layer
// uses IsConstraintError to decide which failures to drop.
package sqlerr

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// sqlStateError is implemented by drivers exposing SQLSTATE codes (pgx).
type sqlStateError interface {
	SQLState() string
}

// oracleCoder is implemented by Oracle driver errors (godror.OraErr).
type oracleCoder interface {
	Code() int
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// Oracle error codes for constraint violations.
const (
	oraUniqueViolation = 1    // ORA-00001
	oraCheckViolation  = 2290 // ORA-02290
	oraParentNotFound  = 2291 // ORA-02291
	oraChildFound      = 2292 // ORA-02292
)

// IsConstraintError reports if the error resulted from any database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
func IsUniqueConstraintError(err error) bool {
	return matches(err, class{
		state:   []string{pgUniqueViolation},
		mysql:   []uint16{mysqlDuplicateEntry},
		oracle:  []int{oraUniqueViolation},
		message: []string{"Error 1062", "violates unique constraint", "UNIQUE constraint failed", "ORA-00001"},
	})
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
func IsForeignKeyConstraintError(err error) bool {
	return matches(err, class{
		state:   []string{pgForeignKeyViolation},
		mysql:   []uint16{mysqlForeignKeyParent, mysqlForeignKeyChild},
		oracle:  []int{oraParentNotFound, oraChildFound},
		message: []string{"Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed", "ORA-02291", "ORA-02292"},
	})
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool {
	return matches(err, class{
		state:   []string{pgCheckViolation},
		mysql:   []uint16{mysqlCheckConstraintViolate},
		oracle:  []int{oraCheckViolation},
		message: []string{"Error 3819", "violates check constraint", "CHECK constraint failed", "ORA-02290"},
	})
}

// class lists the codes identifying one kind of constraint violation per driver.
type class struct {
	state   []string
	mysql   []uint16
	oracle  []int
	message []string
}

func matches(err error, c class) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && contains(c.state, string(pqErr.Code)) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && contains(c.mysql, myErr.Number) {
		return true
	}
	if e, ok := asError[sqlStateError](err); ok && contains(c.state, e.SQLState()) {
		return true
	}
	if e, ok := asError[oracleCoder](err); ok && contains(c.oracle, e.Code()) {
		return true
	}
	// Fallback to string matching for drivers that don't expose codes.
	msg := err.Error()
	for _, sub := range c.message {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

func contains[T comparable](vs []T, v T) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
