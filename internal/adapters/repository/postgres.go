package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates the tables, the outbox notify trigger and their indexes
// when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"

	appointmentPatientFK = "appointments_patient_id_fkey"
)

// translate maps constraint violations onto domain errors.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation, foreignKeyViolation:
		return fmt.Errorf("%s: %w", pqErr.Constraint, domain.ErrConflict)
	default:
		return err
	}
}

// expectOne turns a zero-row delete into ErrNotFound.
func expectOne(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
