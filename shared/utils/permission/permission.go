package permission

import "tenanthub-backend/shared/database/models"

// Resource is a permission-gated resource type.
type Resource string

// Action is an operation on a resource.
type Action string

const (
	ResourceWorkspace     Resource = "workspace"
	ResourceBot           Resource = "bot"
	ResourceKnowledgeBase Resource = "knowledgeBase"
	ResourceUser          Resource = "user"
	ResourceOrganization  Resource = "organization"
)

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionInvite Action = "invite"

	// ActionAll is a wildcard inside the policy table, it is never a
	// valid action to ask about.
	ActionAll Action = "*"
)

// rolePermissions is the static policy. There is no per-workspace or
// per-user override layer; changing access means changing a member's
// role. Unknown roles, resources and actions all deny.
var rolePermissions = map[models.WorkspaceRole]map[Resource][]Action{
	models.WorkspaceRoleOwner: {
		ResourceWorkspace:     {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceBot:           {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceKnowledgeBase: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceUser:          {ActionInvite, ActionRead, ActionUpdate, ActionDelete},
		ResourceOrganization:  {ActionRead, ActionUpdate},
	},
	models.WorkspaceRoleAdmin: {
		ResourceWorkspace:     {ActionRead, ActionUpdate},
		ResourceBot:           {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceKnowledgeBase: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ResourceUser:          {ActionInvite, ActionRead, ActionUpdate},
		ResourceOrganization:  {ActionRead},
	},
	models.WorkspaceRoleMember: {
		ResourceWorkspace:     {ActionRead},
		ResourceBot:           {ActionRead},
		ResourceKnowledgeBase: {ActionRead},
		ResourceUser:          {ActionRead},
		ResourceOrganization:  {ActionRead},
	},
}

// HasPermission answers whether a role may perform an action on a
// resource type. Pure lookup, no I/O; resource instance checks (does the
// user actually belong to this workspace) happen before this via
// ResolveRole.
func HasPermission(role models.WorkspaceRole, resource Resource, action Action) bool {
	resources, ok := rolePermissions[role]
	if !ok {
		return false
	}
	actions, ok := resources[resource]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action || a == ActionAll {
			return true
		}
	}
	return false
}

// PermissionsFor returns a copy of the action lists for a role, used by
// clients that want to render capability-driven UI. Nil for unknown roles.
func PermissionsFor(role models.WorkspaceRole) map[Resource][]Action {
	resources, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make(map[Resource][]Action, len(resources))
	for res, actions := range resources {
		out[res] = append([]Action(nil), actions...)
	}
	return out
}
