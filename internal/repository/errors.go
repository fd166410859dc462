// Package repository holds the SQL data access layer.  Repositories return
// the sentinel errors below; services translate them into apperr kinds.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the referenced row does not exist, including
// inserts whose foreign key points at a missing parent.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique index, such as
// users.email or enrollments(user_id, course_id).
var ErrDuplicate = errors.New("duplicate")

// ErrConflict is returned when a write cannot proceed because of the
// current state of the row, e.g. paying for an already PAID enrollment.
var ErrConflict = errors.New("conflict")

// MySQL server error numbers we translate.
const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// translate maps driver errors onto the package sentinels and passes
// everything else through untouched.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	}
	switch mysqlErrNumber(err) {
	case mysqlDuplicateEntry:
		return ErrDuplicate
	case mysqlNoReferencedRow:
		return ErrNotFound
	}
	return err
}

// withTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.  A panic in fn rolls back and is re-raised.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}
