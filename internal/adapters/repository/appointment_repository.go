package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/lib/pq"
)

type AppointmentRepository struct {
	db *sql.DB
}

var _ ports.AppointmentRepository = (*AppointmentRepository)(nil)

func NewAppointmentRepository(db *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.QueryRowContext(ctx,
		"SELECT id, date_time, patient_id FROM appointments WHERE id = $1",
		id,
	).Scan(&a.ID, &a.DateTime, &a.PatientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) FindAll(ctx context.Context) ([]domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, date_time, patient_id FROM appointments ORDER BY date_time, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.DateTime, &a.PatientID); err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *AppointmentRepository) Save(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
	if a.ID == 0 {
		err := r.db.QueryRowContext(ctx,
			"INSERT INTO appointments (date_time, patient_id) VALUES ($1, $2) RETURNING id",
			a.DateTime, a.PatientID,
		).Scan(&a.ID)
		if err != nil {
			return nil, translateAppointmentError(err, a.PatientID)
		}
		return &a, nil
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE appointments SET date_time = $1, patient_id = $2 WHERE id = $3",
		a.DateTime, a.PatientID, a.ID,
	)
	if err != nil {
		return nil, translateAppointmentError(err, a.PatientID)
	}
	if err := expectOne(res, "appointment", a.ID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(res, "appointment", id)
}

// DeleteAll removes the given appointments in one statement. Rows that are
// already gone are ignored.
func (r *AppointmentRepository) DeleteAll(ctx context.Context, appointments []domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}
	ids := make([]int64, len(appointments))
	for i, a := range appointments {
		ids[i] = a.ID
	}
	_, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = ANY($1)", pq.Array(ids))
	return err
}

// translateAppointmentError reports a patient that vanished between the
// service's lookup and the insert as a missing patient, not a conflict.
func translateAppointmentError(err error, patientID int64) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation && pqErr.Constraint == appointmentPatientFK {
		return fmt.Errorf("patient %d: %w", patientID, domain.ErrPatientNotFound)
	}
	return translate(err)
}
