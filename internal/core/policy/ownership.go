// Package policy holds the ownership rules shared by every service that reads
// or mutates patient data.
package policy

import "github.com/AchilleasB/baby-kliniek/scheduling-service/internal/core/domain"

// Owns reports whether actor may touch data belonging to patientID. Admins
// own everything; a user owns only the patient linked to their account.
func Owns(actor domain.Actor, patientID int64) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	return actor.LinkedPatientID != nil && *actor.LinkedPatientID == patientID
}

// RequireAdmin is the role-only gate. It needs no entity data, so callers run
// it before any lookup.
func RequireAdmin(role domain.Role) error {
	if !role.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
