package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrUnavailable marks failures of the database itself, as opposed to a
	// statement that ran and matched nothing.
	ErrUnavailable = errors.New("store unavailable")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")

	// ErrConstraint is returned when a write breaks a schema constraint other
	// than uniqueness. The store is reachable; the values are wrong.
	ErrConstraint = errors.New("constraint violation")
)

// Querier is the subset of *sql.DB and *sql.Tx the store functions need.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Field is a column paired with a value. In a WHERE clause a nil value is
// compared with IS NULL.
type Field struct {
	Column string
	Value  any
}

// F is shorthand for building a Field.
func F(column string, value any) Field {
	return Field{Column: column, Value: value}
}

// WithTx runs fn inside a transaction, committing if fn returns nil and
// rolling back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return unavailable("committing transaction", err)
	}
	return nil
}

// ConditionalUpdate applies set to the rows of table matching every field in
// where, as a single statement, and returns the number of rows changed. The
// where clause is expected to carry the prior state the caller relies on, so
// zero rows means that state no longer holds.
func ConditionalUpdate(ctx context.Context, q Querier, table string, set, where []Field) (int64, error) {
	if len(set) == 0 || len(where) == 0 {
		return 0, fmt.Errorf("conditional update of %s needs both set and where fields", table)
	}

	var b strings.Builder
	args := make([]any, 0, len(set)+len(where))

	b.WriteString("UPDATE " + table + " SET ")
	for i, f := range set {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Column + " = ?")
		args = append(args, f.Value)
	}

	b.WriteString(" WHERE ")
	for i, f := range where {
		if i > 0 {
			b.WriteString(" AND ")
		}
		if f.Value == nil {
			b.WriteString(f.Column + " IS NULL")
			continue
		}
		b.WriteString(f.Column + " = ?")
		args = append(args, f.Value)
	}

	result, err := q.ExecContext(ctx, b.String(), args...)
	if err != nil {
		if isConstraintViolation(err) {
			return 0, fmt.Errorf("updating %s: %w: %w", table, ErrConstraint, err)
		}
		return 0, unavailable("updating "+table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, unavailable("reading affected rows", err)
	}
	return n, nil
}

// Insert adds one row to table and returns its id.
func Insert(ctx context.Context, q Querier, table string, fields []Field) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("insert into %s needs at least one field", table)
	}

	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
		marks[i] = "?"
		args[i] = f.Value
	}

	result, err := q.ExecContext(ctx,
		"INSERT INTO "+table+" ("+strings.Join(cols, ", ")+") VALUES ("+strings.Join(marks, ", ")+")",
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("inserting into %s: %w", table, ErrDuplicate)
		}
		if isConstraintViolation(err) {
			return 0, fmt.Errorf("inserting into %s: %w: %w", table, ErrConstraint, err)
		}
		return 0, unavailable("inserting into "+table, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, unavailable("getting "+table+" id", err)
	}
	return id, nil
}

// unavailable wraps a driver error so callers can match ErrUnavailable while
// keeping the original cause.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		sqlite3.SQLITE_CONSTRAINT_CHECK,
		sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return true
	}
	return false
}
