package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
)

type PatientRepository struct {
	db *sql.DB
}

var _ ports.PatientRepository = (*PatientRepository)(nil)

func NewPatientRepository(db *sql.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	var p domain.Patient
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, birth_date FROM patients WHERE id = $1",
		id,
	).Scan(&p.ID, &p.Name, &p.BirthDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) FindAll(ctx context.Context) ([]domain.Patient, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, birth_date FROM patients ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := make([]domain.Patient, 0)
	for rows.Next() {
		var p domain.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.BirthDate); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

// Save inserts when the ID is zero and updates otherwise.
func (r *PatientRepository) Save(ctx context.Context, p domain.Patient) (*domain.Patient, error) {
	if p.ID == 0 {
		err := r.db.QueryRowContext(ctx,
			"INSERT INTO patients (name, birth_date) VALUES ($1, $2) RETURNING id",
			p.Name, p.BirthDate,
		).Scan(&p.ID)
		if err != nil {
			return nil, translate(err)
		}
		return &p, nil
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE patients SET name = $1, birth_date = $2 WHERE id = $3",
		p.Name, p.BirthDate, p.ID,
	)
	if err != nil {
		return nil, translate(err)
	}
	if err := expectOne(res, "patient", p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM patients WHERE id = $1", id)
	if err != nil {
		return translate(err)
	}
	return expectOne(res, "patient", id)
}
