package models

// AdminSettings is a read-only snapshot of everything the admin configures.
type AdminSettings struct {
	HasAdminPin  bool
	Role         Role
	Capabilities CapabilitySet
	AccessWindow AccessWindow
	CheckIn      CheckInState
}
