package policy

import "github.com/MKhiriev/vault-gate/models"

// Capability decides whether role may perform action. Admin may do
// everything; Controlled is limited by the explicitly configured flags and
// keeps every capability that was never restricted.
func Capability(role models.Role, capabilities models.CapabilitySet, action models.Action) bool {
	if role == models.RoleAdmin {
		return true
	}
	return capabilities.Allows(action)
}
