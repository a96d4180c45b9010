package auth

import "taskhub/internal/models"

// Resource names the record types the policy covers.
type Resource string

const (
	ResourceProject  Resource = "project"
	ResourceTask     Resource = "task"
	ResourceTag      Resource = "tag"
	ResourceCategory Resource = "category"
	ResourceUser     Resource = "user"
)

// Operation names the actions a caller can request on a resource.
type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Allowed is the pure policy decision: whether a role may perform an
// operation on a resource type at all. Ownership scoping is applied by
// the services on top of this; Allowed itself never touches storage.
func Allowed(role models.Role, resource Resource, op Operation) bool {
	switch resource {
	case ResourceProject:
		switch role {
		case models.RoleAdministrator, models.RoleProjectManager:
			return true
		case models.RoleColaborator:
			return false
		default:
			return false
		}
	case ResourceTask, ResourceTag, ResourceCategory:
		// Any authenticated role; services scope to owned/assigned records.
		return role.Valid()
	case ResourceUser:
		return role == models.RoleAdministrator
	default:
		return false
	}
}
