package domain

import "time"

// DocTemplate is a reusable document body with {{PLACEHOLDER}} tokens that
// get substituted at render time.
type DocTemplate struct {
	ID             string
	OwnerID        string
	OrganizationID string
	Name           string
	Body           string
	CreatedAt      time.Time
}
