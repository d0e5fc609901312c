package models

import "fmt"

// Role is the role of the device user. Admin holds every capability;
// Controlled is limited by the CapabilitySet configured by the admin.
type Role int

const (
	RoleAdmin Role = iota + 1
	RoleControlled
)

// String returns the persisted name of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleControlled:
		return "controlled"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole converts a persisted role name back into a Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "admin":
		return RoleAdmin, true
	case "controlled":
		return RoleControlled, true
	default:
		return 0, false
	}
}

// Action is a vault operation gated by a capability.
type Action int

const (
	ActionAdd Action = iota + 1
	ActionDelete
	ActionEdit
	ActionShare
	ActionChangeOwnPin
)

// AllActions lists every gated action in a stable order.
var AllActions = []Action{ActionAdd, ActionDelete, ActionEdit, ActionShare, ActionChangeOwnPin}

// String returns the persisted name of the action.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	case ActionEdit:
		return "edit"
	case ActionShare:
		return "share"
	case ActionChangeOwnPin:
		return "change_own_pin"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// CapabilitySet holds the capability flags explicitly configured for the
// Controlled role. An action missing from the set is allowed.
type CapabilitySet map[Action]bool

// Allows reports whether the set permits a. Unset flags default to true.
func (c CapabilitySet) Allows(a Action) bool {
	allowed, ok := c[a]
	return !ok || allowed
}
