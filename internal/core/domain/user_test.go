package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("USER")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)

	for _, raw := range []string{"", "admin", "ROLE_ADMIN", "PARENT"} {
		_, err := ParseRole(raw)
		assert.True(t, errors.Is(err, ErrValidation), "role %q", raw)
	}
}

func TestErrPatientNotFoundIsValidation(t *testing.T) {
	assert.True(t, errors.Is(ErrPatientNotFound, ErrValidation))
	assert.False(t, errors.Is(ErrPatientNotFound, ErrNotFound))
}
