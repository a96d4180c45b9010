package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskhub/internal/models"
)

var allOps = []Operation{OpList, OpRead, OpCreate, OpUpdate, OpDelete}

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		role     models.Role
		resource Resource
		allow    bool
	}{
		{models.RoleAdministrator, ResourceProject, true},
		{models.RoleProjectManager, ResourceProject, true},
		{models.RoleColaborator, ResourceProject, false},

		{models.RoleAdministrator, ResourceTask, true},
		{models.RoleProjectManager, ResourceTask, true},
		{models.RoleColaborator, ResourceTask, true},

		{models.RoleAdministrator, ResourceTag, true},
		{models.RoleProjectManager, ResourceTag, true},
		{models.RoleColaborator, ResourceTag, true},

		{models.RoleAdministrator, ResourceCategory, true},
		{models.RoleProjectManager, ResourceCategory, true},
		{models.RoleColaborator, ResourceCategory, true},

		{models.RoleAdministrator, ResourceUser, true},
		{models.RoleProjectManager, ResourceUser, false},
		{models.RoleColaborator, ResourceUser, false},
	}

	for _, tc := range cases {
		for _, op := range allOps {
			got := Allowed(tc.role, tc.resource, op)
			assert.Equalf(t, tc.allow, got, "role=%s resource=%s op=%s", tc.role, tc.resource, op)
		}
	}
}

func TestPolicyIsDeterministic(t *testing.T) {
	for _, op := range allOps {
		first := Allowed(models.RoleProjectManager, ResourceProject, op)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Allowed(models.RoleProjectManager, ResourceProject, op))
		}
	}
}

func TestPolicyRejectsUnknownRole(t *testing.T) {
	for _, resource := range []Resource{ResourceProject, ResourceTask, ResourceTag, ResourceCategory, ResourceUser} {
		for _, op := range allOps {
			assert.False(t, Allowed(models.Role("intruder"), resource, op))
		}
	}
}
