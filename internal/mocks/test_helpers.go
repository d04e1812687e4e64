package mocks

import (
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
)

// Clinic bundles the repository mocks behind one fixture.
type Clinic struct {
	Patients     *MockPatientRepository
	Appointments *MockAppointmentRepository
	Users        *MockUserRepository
	Events       *MockEventRecorder
	Tokens       *MockTokenStore
}

func NewClinic() *Clinic {
	return &Clinic{
		Patients:     NewMockPatientRepository(),
		Appointments: NewMockAppointmentRepository(),
		Users:        NewMockUserRepository(),
		Events:       NewMockEventRecorder(),
		Tokens:       NewMockTokenStore(),
	}
}

func Int64(v int64) *int64 { return &v }

// SeedPatientWithUser stores a patient and the USER account linked to it.
func (c *Clinic) SeedPatientWithUser(userID, patientID int64, username string) (domain.User, domain.Patient) {
	p := domain.Patient{
		ID:        patientID,
		Name:      "Patient " + username,
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	u := domain.User{
		ID:              userID,
		Username:        username,
		PasswordHash:    "hash",
		Role:            domain.RoleUser,
		LinkedPatientID: Int64(patientID),
	}
	c.Patients.SeedPatient(p)
	c.Users.SeedUser(u)
	return u, p
}

func (c *Clinic) SeedAdmin(userID int64, username string) domain.User {
	u := domain.User{
		ID:           userID,
		Username:     username,
		PasswordHash: "hash",
		Role:         domain.RoleAdmin,
	}
	c.Users.SeedUser(u)
	return u
}

func (c *Clinic) SeedAppointment(id, patientID int64, at time.Time) domain.Appointment {
	a := domain.Appointment{ID: id, PatientID: patientID, DateTime: at}
	c.Appointments.SeedAppointment(a)
	return a
}
