package policy

import (
	"errors"
	"testing"

	"github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestOwns(t *testing.T) {
	tests := []struct {
		name      string
		actor     domain.Actor
		patientID int64
		want      bool
	}{
		{
			name:      "admin_owns_any_patient",
			actor:     domain.Actor{ID: 1, Role: domain.RoleAdmin},
			patientID: 42,
			want:      true,
		},
		{
			name:      "admin_with_linked_patient_still_owns_others",
			actor:     domain.Actor{ID: 1, Role: domain.RoleAdmin, LinkedPatientID: ptr(7)},
			patientID: 9,
			want:      true,
		},
		{
			name:      "user_owns_linked_patient",
			actor:     domain.Actor{ID: 3, Role: domain.RoleUser, LinkedPatientID: ptr(7)},
			patientID: 7,
			want:      true,
		},
		{
			name:      "user_does_not_own_other_patient",
			actor:     domain.Actor{ID: 3, Role: domain.RoleUser, LinkedPatientID: ptr(7)},
			patientID: 9,
			want:      false,
		},
		{
			name:      "user_without_linked_patient_owns_nothing",
			actor:     domain.Actor{ID: 4, Role: domain.RoleUser},
			patientID: 0,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Owns(tt.actor, tt.patientID))
		})
	}
}

func TestOwns_UserNeverOwnsForeignPatients(t *testing.T) {
	actor := domain.Actor{ID: 3, Role: domain.RoleUser, LinkedPatientID: ptr(7)}
	for id := int64(-5); id < 50; id++ {
		if id == 7 {
			continue
		}
		assert.False(t, Owns(actor, id), "patient %d", id)
	}
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(domain.RoleAdmin))
	assert.True(t, errors.Is(RequireAdmin(domain.RoleUser), domain.ErrForbidden))
	assert.True(t, errors.Is(RequireAdmin(domain.Role("ROLE_ADMIN")), domain.ErrForbidden))
}
