package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the services care about.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
	CodeNotNullViolation    = "23502"

	CodeInvalidTextRepresentation = "22P02"
	CodeStringDataRightTruncation = "22001"
)

// Constraint names declared in the migrations.
const (
	ConstraintUserEmail       = "users_email_key"
	ConstraintProjectTitle    = "projects_title_key"
	ConstraintContributorPair = "contributors_pkey"
)

// ConstraintError is an integrity violation or rejected value reported by Postgres.
type ConstraintError struct {
	Code       string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %q violated (sqlstate %s)", e.Constraint, e.Code)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func (e *ConstraintError) IsUnique() bool {
	return e.Code == CodeUniqueViolation
}

// AsConstraintError unwraps err into a *ConstraintError if it is one.
func AsConstraintError(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// classify turns driver-level integrity errors into *ConstraintError.
// Both pgx and lib/pq errors are recognised since the migrations run through lib/pq.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isIntegrityCode(pgErr.Code) {
		return &ConstraintError{Code: pgErr.Code, Constraint: pgErr.ConstraintName, Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && isIntegrityCode(string(pqErr.Code)) {
		return &ConstraintError{Code: string(pqErr.Code), Constraint: pqErr.Constraint, Err: err}
	}

	return err
}

func isIntegrityCode(code string) bool {
	switch code {
	case CodeUniqueViolation, CodeForeignKeyViolation, CodeCheckViolation, CodeNotNullViolation,
		CodeInvalidTextRepresentation, CodeStringDataRightTruncation:
		return true
	}
	return false
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
