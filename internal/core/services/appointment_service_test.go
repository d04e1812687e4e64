package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/ports"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/services"
	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var slot = time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC)

func newAppointmentService(c *mocks.Clinic) *services.AppointmentService {
	return services.NewAppointmentService(c.Appointments, c.Patients, c.Events, zap.NewNop())
}

func userActor(id, patientID int64) domain.Actor {
	return domain.Actor{ID: id, Role: domain.RoleUser, LinkedPatientID: mocks.Int64(patientID)}
}

var admin = domain.Actor{ID: 1, Username: "admin", Role: domain.RoleAdmin}

func ids(appointments []domain.Appointment) []int64 {
	out := make([]int64, len(appointments))
	for i, a := range appointments {
		out[i] = a.ID
	}
	return out
}

func TestAppointmentService_ListAppointments(t *testing.T) {
	c := mocks.NewClinic()
	c.SeedPatientWithUser(3, 7, "user1")
	c.SeedPatientWithUser(4, 9, "user2")
	c.SeedAppointment(1, 7, slot)
	c.SeedAppointment(2, 9, slot)
	c.SeedAppointment(3, 7, slot.Add(time.Hour))
	svc := newAppointmentService(c)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor domain.Actor
		want  []int64
	}{
		{name: "admin_sees_everything", actor: admin, want: []int64{1, 2, 3}},
		{name: "user_sees_only_own_patient", actor: userActor(3, 7), want: []int64{1, 3}},
		{name: "other_user_sees_only_own_patient", actor: userActor(4, 9), want: []int64{2}},
		{name: "user_without_patient_sees_nothing", actor: domain.Actor{ID: 5, Role: domain.RoleUser}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListAppointments(ctx, tt.actor)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestAppointmentService_ListAppointments_UserSeesOnlyLinkedPatient(t *testing.T) {
	c := mocks.NewClinic()
	c.SeedAppointment(1, 7, slot)
	c.SeedAppointment(2, 9, slot)
	svc := newAppointmentService(c)

	got, err := svc.ListAppointments(context.Background(), userActor(3, 7))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(7), got[0].PatientID)
}

func TestAppointmentService_ListAppointments_StoreError(t *testing.T) {
	c := mocks.NewClinic()
	c.Appointments.FindAllError = context.DeadlineExceeded
	svc := newAppointmentService(c)

	_, err := svc.ListAppointments(context.Background(), admin)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAppointmentService_CreateAppointment(t *testing.T) {
	tests := []struct {
		name      string
		actor     domain.Actor
		patientID *int64
		wantErr   error
	}{
		{name: "missing_patient_id", actor: admin, patientID: nil, wantErr: domain.ErrValidation},
		{name: "unknown_patient_for_admin", actor: admin, patientID: mocks.Int64(99), wantErr: domain.ErrPatientNotFound},
		{name: "unknown_patient_for_user", actor: userActor(3, 7), patientID: mocks.Int64(99), wantErr: domain.ErrPatientNotFound},
		{name: "user_for_foreign_patient", actor: userActor(3, 7), patientID: mocks.Int64(9), wantErr: domain.ErrForbidden},
		{name: "user_without_patient", actor: domain.Actor{ID: 5, Role: domain.RoleUser}, patientID: mocks.Int64(7), wantErr: domain.ErrForbidden},
		{name: "user_for_own_patient", actor: userActor(3, 7), patientID: mocks.Int64(7)},
		{name: "admin_for_any_patient", actor: admin, patientID: mocks.Int64(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mocks.NewClinic()
			c.SeedPatientWithUser(3, 7, "user1")
			c.SeedPatientWithUser(4, 9, "user2")
			svc := newAppointmentService(c)

			got, err := svc.CreateAppointment(context.Background(), tt.actor, slot, tt.patientID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Empty(t, c.Appointments.SaveCalls, "nothing may be persisted")
				assert.Empty(t, c.Events.Types())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tt.patientID, got.PatientID)
			assert.True(t, c.Appointments.Has(got.ID))
			assert.Equal(t, []string{ports.EventAppointmentCreated}, c.Events.Types())
		})
	}
}

func TestAppointmentService_CreateAppointment_UnknownPatientIsValidationNotNotFound(t *testing.T) {
	c := mocks.NewClinic()
	svc := newAppointmentService(c)

	_, err := svc.CreateAppointment(context.Background(), admin, slot, mocks.Int64(42))

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}

func TestAppointmentService_CreateAppointment_OutboxFailureDoesNotFail(t *testing.T) {
	c := mocks.NewClinic()
	c.SeedPatientWithUser(3, 7, "user1")
	c.Events.RecordError = errors.New("outbox down")
	svc := newAppointmentService(c)

	got, err := svc.CreateAppointment(context.Background(), userActor(3, 7), slot, mocks.Int64(7))

	require.NoError(t, err)
	assert.True(t, c.Appointments.Has(got.ID))
}

func TestAppointmentService_DeleteAppointment(t *testing.T) {
	tests := []struct {
		name          string
		actor         domain.Actor
		appointmentID int64
		wantErr       error
	}{
		{name: "unknown_appointment", actor: admin, appointmentID: 99, wantErr: domain.ErrNotFound},
		{name: "unknown_appointment_for_user", actor: userActor(3, 7), appointmentID: 99, wantErr: domain.ErrNotFound},
		{name: "user_deletes_foreign_appointment", actor: userActor(3, 7), appointmentID: 2, wantErr: domain.ErrForbidden},
		{name: "user_deletes_own_appointment", actor: userActor(3, 7), appointmentID: 1},
		{name: "admin_deletes_any_appointment", actor: admin, appointmentID: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mocks.NewClinic()
			c.SeedAppointment(1, 7, slot)
			c.SeedAppointment(2, 9, slot)
			svc := newAppointmentService(c)

			err := svc.DeleteAppointment(context.Background(), tt.actor, tt.appointmentID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, c.Appointments.DeleteByIDCalls)
				assert.Equal(t, 2, c.Appointments.Count())
				return
			}
			require.NoError(t, err)
			assert.False(t, c.Appointments.Has(tt.appointmentID))
			assert.Equal(t, []string{ports.EventAppointmentDeleted}, c.Events.Types())
		})
	}
}
