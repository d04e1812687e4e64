package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
)

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const selectUser = "SELECT id, username, password_hash, role, patient_id FROM users"

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		patientID sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &patientID); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	u.Role = parsed
	if patientID.Valid {
		id := patientID.Int64
		u.LinkedPatientID = &id
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE username = $1", username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *UserRepository) Save(ctx context.Context, u domain.User) (*domain.User, error) {
	var patientID sql.NullInt64
	if u.LinkedPatientID != nil {
		patientID = sql.NullInt64{Int64: *u.LinkedPatientID, Valid: true}
	}

	if u.ID == 0 {
		err := r.db.QueryRowContext(ctx,
			"INSERT INTO users (username, password_hash, role, patient_id) VALUES ($1, $2, $3, $4) RETURNING id",
			u.Username, u.PasswordHash, string(u.Role), patientID,
		).Scan(&u.ID)
		if err != nil {
			return nil, translate(err)
		}
		return &u, nil
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET username = $1, password_hash = $2, role = $3, patient_id = $4 WHERE id = $5",
		u.Username, u.PasswordHash, string(u.Role), patientID, u.ID,
	)
	if err != nil {
		return nil, translate(err)
	}
	if err := expectOne(res, "user", u.ID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Delete(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", u.ID)
	if err != nil {
		return translate(err)
	}
	return expectOne(res, "user", u.ID)
}

// FindOwningUserID returns the user whose account is linked to the patient.
func (r *UserRepository) FindOwningUserID(ctx context.Context, patientID int64) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM users WHERE patient_id = $1", patientID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
