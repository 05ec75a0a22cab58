// Package authz holds the role capability predicates for the operator
// console. Every predicate is pure and total over the closed role set;
// callers re-evaluate on each action because an actor's role can change
// between calls.
package authz

import "github.com/spec-kit/medreview-console/internal/domain"

// CanManageUsers reports whether the actor may administer accounts.
func CanManageUsers(actor domain.Role) bool {
	return actor == domain.RoleOwner || actor == domain.RoleAdmin
}

// CanManageReviews reports whether the actor may moderate reviews.
func CanManageReviews(actor domain.Role) bool {
	return actor == domain.RoleOwner || actor == domain.RoleAdmin || actor == domain.RoleModerator
}

// CanSuspendUser reports whether the actor may suspend (or reactivate) the
// target account. No actor may suspend themselves.
func CanSuspendUser(actor, target domain.Role, isSelf bool) bool {
	if isSelf {
		return false
	}
	switch actor {
	case domain.RoleOwner:
		return true
	case domain.RoleAdmin:
		return target == domain.RoleUser || target == domain.RoleModerator
	case domain.RoleModerator:
		return target == domain.RoleUser
	}
	return false
}

// CanDeleteUser reports whether the actor may delete the target account.
// Deletion is irreversible, so the capability set is tighter than for
// suspension: admins may delete only moderators, never peer admins.
func CanDeleteUser(actor, target domain.Role, isSelf bool) bool {
	if isSelf {
		return false
	}
	switch actor {
	case domain.RoleOwner:
		return true
	case domain.RoleAdmin:
		return target == domain.RoleModerator
	}
	return false
}
