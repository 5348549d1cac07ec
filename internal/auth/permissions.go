package auth

import (
	apperrors "campus/internal/errors"
	"campus/internal/model"
)

// Identity is the authenticated caller, extracted from verified JWT claims by
// the router middleware and passed explicitly to every operation that needs
// it. Core code never reads the caller from ambient state.
type Identity struct {
	UserID   uint
	Username string
	Role     model.Role
}

// IsZero reports whether no authenticated identity is present.
func (i Identity) IsZero() bool {
	return i.UserID == 0 && i.Username == ""
}

// Permission identifies a class of operations a role may perform.
type Permission string

const (
	// PermUserAdmin covers user CRUD, activation, and user listings.
	PermUserAdmin Permission = "user:admin"
	// PermCourseAdmin covers course create/update/delete and status changes.
	PermCourseAdmin Permission = "course:admin"
	// PermCourseRead covers course reads available to any authenticated user.
	PermCourseRead Permission = "course:read"
	// PermEnrollmentAdmin covers course rosters, stats, and the full ledger.
	PermEnrollmentAdmin Permission = "enrollment:admin"
	// PermEnrollSelf covers enroll/unenroll/can-enroll and own-enrollment reads.
	PermEnrollSelf Permission = "enrollment:self"
	// PermSelfProfile covers profile, contact-info, and password operations on
	// the caller's own account.
	PermSelfProfile Permission = "profile:self"
)

// rolePermissions is the single role -> permission-set table consulted for
// every operation, replacing per-endpoint role checks.
var rolePermissions = map[model.Role]map[Permission]struct{}{
	model.RoleAdmin: {
		PermUserAdmin:       {},
		PermCourseAdmin:     {},
		PermCourseRead:      {},
		PermEnrollmentAdmin: {},
		PermEnrollSelf:      {},
		PermSelfProfile:     {},
	},
	model.RoleStudent: {
		PermCourseRead:  {},
		PermEnrollSelf:  {},
		PermSelfProfile: {},
	},
}

// Can reports whether the role is allowed to perform the operation class.
func Can(role model.Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[perm]
	return ok
}

// Require checks that the identity is present and its role holds the
// permission. It returns ErrUnauthenticated for a missing identity and
// ErrForbidden for a role outside the permitted set.
func Require(identity Identity, perm Permission) error {
	if identity.IsZero() {
		return apperrors.ErrUnauthenticated
	}
	if !Can(identity.Role, perm) {
		return apperrors.ErrForbidden
	}
	return nil
}
