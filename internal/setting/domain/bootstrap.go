package domain

// BootstrapData describes the default clinic and administrator ensured at
// process start.
type BootstrapData struct {
	OrgName       string
	AdminEmail    string
	AdminPassword string
}
