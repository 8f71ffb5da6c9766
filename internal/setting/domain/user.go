package domain

import "time"

// Role gates tenant-administrative operations. There are only two.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type User struct {
	ID           string
	Email        string // unique, stored lowercase
	PasswordHash string // argon2id PHC encoded
	// OrganizationID may be empty only for a bootstrap-created account that
	// has not been attached to a clinic yet. Such accounts cannot log in.
	OrganizationID string
	Role           Role
	CreatedAt      time.Time
}
