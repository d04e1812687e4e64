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
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDeletionService(c *mocks.Clinic) *services.DeletionService {
	return services.NewDeletionService(c.Users, c.Patients, c.Appointments, c.Tokens, c.Events, time.Hour, zap.NewNop())
}

// seedFamily stores user 5 linked to patient 7 with two appointments, plus an
// unrelated user 6 / patient 9 with one appointment.
func seedFamily(c *mocks.Clinic) {
	c.SeedPatientWithUser(5, 7, "parent")
	c.SeedPatientWithUser(6, 9, "other")
	c.SeedAppointment(1, 7, slot)
	c.SeedAppointment(2, 7, slot.Add(24*time.Hour))
	c.SeedAppointment(3, 9, slot)
}

func TestDeletionService_DeleteByUserID_Cascades(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	svc := newDeletionService(c)
	ctx := context.Background()

	require.NoError(t, svc.DeleteByUserID(ctx, domain.RoleAdmin, 5))

	assert.False(t, c.Appointments.Has(1))
	assert.False(t, c.Appointments.Has(2))
	assert.False(t, c.Patients.Has(7))
	assert.False(t, c.Users.Has(5))

	assert.True(t, c.Appointments.Has(3), "foreign appointment survives")
	assert.True(t, c.Patients.Has(9))
	assert.True(t, c.Users.Has(6))

	err := svc.DeleteByUserID(ctx, domain.RoleAdmin, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletionService_DeleteByUserID_RevokesSessionsAndRecordsEvent(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	svc := newDeletionService(c)

	require.NoError(t, svc.DeleteByUserID(context.Background(), domain.RoleAdmin, 5))

	assert.True(t, c.Tokens.HasUser(5))
	require.Equal(t, []string{ports.EventPatientDeleted}, c.Events.Types())

	var evt ports.PatientDeletedEvent
	require.NoError(t, json.Unmarshal(c.Events.Events[0].Payload, &evt))
	assert.Equal(t, int64(7), evt.PatientID)
	assert.Equal(t, int64(5), evt.UserID)
	assert.ElementsMatch(t, []int64{1, 2}, evt.AppointmentIDs)
}

func TestDeletionService_DeleteByUserID_NonAdminIsForbiddenBeforeLookup(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	svc := newDeletionService(c)

	err := svc.DeleteByUserID(context.Background(), domain.RoleUser, 5)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, c.Users.LookupCount())
	assert.Empty(t, c.Appointments.DeleteAllCalls)
	assert.True(t, c.Users.Has(5))
	assert.True(t, c.Patients.Has(7))
	assert.Equal(t, 3, c.Appointments.Count())
}

func TestDeletionService_DeleteByUserID_NonAdminForbiddenEvenForUnknownUser(t *testing.T) {
	c := mocks.NewClinic()
	svc := newDeletionService(c)

	err := svc.DeleteByUserID(context.Background(), domain.RoleUser, 404)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletionService_DeleteByUserID_WithoutLinkedPatient(t *testing.T) {
	tests := []struct {
		name string
		seed func(c *mocks.Clinic)
	}{
		{
			name: "admin_account",
			seed: func(c *mocks.Clinic) { c.SeedAdmin(2, "second-admin") },
		},
		{
			name: "user_account",
			seed: func(c *mocks.Clinic) {
				c.Users.SeedUser(domain.User{ID: 2, Username: "orphan", Role: domain.RoleUser})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mocks.NewClinic()
			seedFamily(c)
			tt.seed(c)
			svc := newDeletionService(c)

			require.NoError(t, svc.DeleteByUserID(context.Background(), domain.RoleAdmin, 2))

			assert.False(t, c.Users.Has(2))
			assert.Empty(t, c.Appointments.DeleteAllCalls)
			assert.Empty(t, c.Patients.DeleteByIDCalls)
			assert.Equal(t, 3, c.Appointments.Count())
			assert.Empty(t, c.Events.Types())
		})
	}
}

func TestDeletionService_DeleteByUserID_AdminWithLinkedPatientCascades(t *testing.T) {
	c := mocks.NewClinic()
	c.Patients.SeedPatient(domain.Patient{ID: 7, Name: "Sam"})
	c.Users.SeedUser(domain.User{ID: 2, Username: "boss", Role: domain.RoleAdmin, LinkedPatientID: mocks.Int64(7)})
	c.SeedAppointment(1, 7, slot)
	svc := newDeletionService(c)

	require.NoError(t, svc.DeleteByUserID(context.Background(), domain.RoleAdmin, 2))

	assert.False(t, c.Appointments.Has(1))
	assert.False(t, c.Patients.Has(7))
	assert.False(t, c.Users.Has(2))
}

func TestDeletionService_DeleteByUserID_PatientWithoutAppointments(t *testing.T) {
	c := mocks.NewClinic()
	c.SeedPatientWithUser(5, 7, "parent")
	svc := newDeletionService(c)

	require.NoError(t, svc.DeleteByUserID(context.Background(), domain.RoleAdmin, 5))

	assert.False(t, c.Patients.Has(7))
	assert.False(t, c.Users.Has(5))
}

func TestDeletionService_DeleteByUserID_MissingPatientMidCascade(t *testing.T) {
	c := mocks.NewClinic()
	c.Users.SeedUser(domain.User{ID: 5, Username: "parent", Role: domain.RoleUser, LinkedPatientID: mocks.Int64(7)})
	c.SeedAppointment(1, 7, slot)
	svc := newDeletionService(c)

	err := svc.DeleteByUserID(context.Background(), domain.RoleAdmin, 5)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, c.Appointments.Has(1), "earlier steps are not rolled back")
	assert.True(t, c.Users.Has(5), "later steps do not run")
}

func TestDeletionService_DeleteByUserID_StepFailureStopsCascade(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	c.Appointments.DeleteAllError = errors.New("connection reset")
	svc := newDeletionService(c)

	err := svc.DeleteByUserID(context.Background(), domain.RoleAdmin, 5)

	require.Error(t, err)
	assert.Empty(t, c.Patients.DeleteByIDCalls)
	assert.True(t, c.Users.Has(5))
	assert.False(t, c.Tokens.HasUser(5))
}

func TestDeletionService_DeleteByUserID_FollowUpFailuresAreIgnored(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	c.Tokens.RevokeError = errors.New("redis down")
	c.Events.RecordError = errors.New("outbox down")
	svc := newDeletionService(c)

	require.NoError(t, svc.DeleteByUserID(context.Background(), domain.RoleAdmin, 5))
	assert.False(t, c.Users.Has(5))
}

func TestDeletionService_DeleteByPatientID_Cascades(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	svc := newDeletionService(c)
	ctx := context.Background()

	require.NoError(t, svc.DeleteByPatientID(ctx, domain.RoleAdmin, 7))

	assert.False(t, c.Users.Has(5))
	assert.False(t, c.Patients.Has(7))
	assert.False(t, c.Appointments.Has(1))
	assert.False(t, c.Appointments.Has(2))
	assert.True(t, c.Appointments.Has(3))
	assert.Equal(t, []int64{7}, c.Users.FindOwningUserIDCalls)
	assert.True(t, c.Tokens.HasUser(5))

	err := svc.DeleteByPatientID(ctx, domain.RoleAdmin, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletionService_DeleteByPatientID_DeletesUserBeforeAppointments(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	c.Appointments.DeleteAllError = errors.New("connection reset")
	svc := newDeletionService(c)

	err := svc.DeleteByPatientID(context.Background(), domain.RoleAdmin, 7)

	require.Error(t, err)
	assert.False(t, c.Users.Has(5), "user goes first on this path")
	assert.True(t, c.Patients.Has(7))
	assert.Equal(t, 3, c.Appointments.Count())
}

func TestDeletionService_DeleteByPatientID_Errors(t *testing.T) {
	tests := []struct {
		name      string
		role      domain.Role
		patientID int64
		wantErr   error
	}{
		{name: "non_admin", role: domain.RoleUser, patientID: 7, wantErr: domain.ErrForbidden},
		{name: "unknown_patient", role: domain.RoleAdmin, patientID: 99, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mocks.NewClinic()
			seedFamily(c)
			svc := newDeletionService(c)

			err := svc.DeleteByPatientID(context.Background(), tt.role, tt.patientID)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, c.Users.Has(5))
			assert.Equal(t, 3, c.Appointments.Count())
		})
	}
}

func TestDeletionService_DeleteByPatientID_ForbiddenBeforeLookup(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	svc := newDeletionService(c)

	err := svc.DeleteByPatientID(context.Background(), domain.RoleUser, 7)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, c.Users.LookupCount())
	assert.True(t, c.Patients.Has(7))
}

func TestDeletionService_DeleteByPatientID_OwnerRowMissing(t *testing.T) {
	c := mocks.NewClinic()
	seedFamily(c)
	// The owner lookup names a user id that no longer resolves to a row.
	c.Users.FindOwningUserIDFunc = func(patientID int64) (int64, bool, error) {
		return 404, true, nil
	}
	svc := newDeletionService(c)

	err := svc.DeleteByPatientID(context.Background(), domain.RoleAdmin, 7)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []int64{404}, c.Users.FindByIDCalls)
	assert.Empty(t, c.Users.DeleteCalls)
	assert.Empty(t, c.Appointments.DeleteAllCalls)
	assert.Empty(t, c.Patients.DeleteByIDCalls)
	assert.True(t, c.Users.Has(5))
	assert.True(t, c.Patients.Has(7))
	assert.Equal(t, 3, c.Appointments.Count())
}
