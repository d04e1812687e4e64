package domain

import "fmt"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole accepts only the two known roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	PasswordHash    string `json:"-"`
	Role            Role   `json:"role"`
	LinkedPatientID *int64 `json:"patient_id,omitempty"`
}

// Actor is the resolved identity behind a request. It is never persisted.
type Actor struct {
	ID              int64
	Username        string
	Role            Role
	LinkedPatientID *int64
}

func ActorFromUser(u *User) Actor {
	return Actor{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		LinkedPatientID: u.LinkedPatientID,
	}
}
