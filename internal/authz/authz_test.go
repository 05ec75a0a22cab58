package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/medreview-console/internal/authz"
	"github.com/spec-kit/medreview-console/internal/domain"
)

var allRoles = []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleModerator, domain.RoleUser}

func TestCanManageUsers(t *testing.T) {
	assert.True(t, authz.CanManageUsers(domain.RoleOwner))
	assert.True(t, authz.CanManageUsers(domain.RoleAdmin))
	assert.False(t, authz.CanManageUsers(domain.RoleModerator))
	assert.False(t, authz.CanManageUsers(domain.RoleUser))
}

func TestCanManageReviews(t *testing.T) {
	assert.True(t, authz.CanManageReviews(domain.RoleOwner))
	assert.True(t, authz.CanManageReviews(domain.RoleAdmin))
	assert.True(t, authz.CanManageReviews(domain.RoleModerator))
	assert.False(t, authz.CanManageReviews(domain.RoleUser))
}

func TestSelfProtection(t *testing.T) {
	for _, actor := range allRoles {
		for _, target := range allRoles {
			assert.False(t, authz.CanSuspendUser(actor, target, true),
				"suspend self: actor=%s target=%s", actor, target)
			assert.False(t, authz.CanDeleteUser(actor, target, true),
				"delete self: actor=%s target=%s", actor, target)
		}
	}
}

func TestCanSuspendUser(t *testing.T) {
	cases := []struct {
		actor, target domain.Role
		want          bool
	}{
		{domain.RoleOwner, domain.RoleOwner, true},
		{domain.RoleOwner, domain.RoleAdmin, true},
		{domain.RoleOwner, domain.RoleModerator, true},
		{domain.RoleOwner, domain.RoleUser, true},
		{domain.RoleAdmin, domain.RoleOwner, false},
		{domain.RoleAdmin, domain.RoleAdmin, false},
		{domain.RoleAdmin, domain.RoleModerator, true},
		{domain.RoleAdmin, domain.RoleUser, true},
		{domain.RoleModerator, domain.RoleOwner, false},
		{domain.RoleModerator, domain.RoleAdmin, false},
		{domain.RoleModerator, domain.RoleModerator, false},
		{domain.RoleModerator, domain.RoleUser, true},
		{domain.RoleUser, domain.RoleOwner, false},
		{domain.RoleUser, domain.RoleAdmin, false},
		{domain.RoleUser, domain.RoleModerator, false},
		{domain.RoleUser, domain.RoleUser, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, authz.CanSuspendUser(tc.actor, tc.target, false),
			"actor=%s target=%s", tc.actor, tc.target)
	}
}

func TestCanDeleteUser(t *testing.T) {
	cases := []struct {
		actor, target domain.Role
		want          bool
	}{
		{domain.RoleOwner, domain.RoleOwner, true},
		{domain.RoleOwner, domain.RoleAdmin, true},
		{domain.RoleOwner, domain.RoleModerator, true},
		{domain.RoleOwner, domain.RoleUser, true},
		{domain.RoleAdmin, domain.RoleOwner, false},
		{domain.RoleAdmin, domain.RoleAdmin, false},
		{domain.RoleAdmin, domain.RoleModerator, true},
		{domain.RoleAdmin, domain.RoleUser, false},
		{domain.RoleModerator, domain.RoleUser, false},
		{domain.RoleUser, domain.RoleUser, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, authz.CanDeleteUser(tc.actor, tc.target, false),
			"actor=%s target=%s", tc.actor, tc.target)
	}
}
