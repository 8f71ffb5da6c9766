package domain

import "time"

// LibraryItem references study material kept by a clinic. The file itself
// lives outside this system; only the reference is stored.
type LibraryItem struct {
	ID             string
	OwnerID        string
	OrganizationID string
	Title          string
	Filename       string
	Notes          string
	CreatedAt      time.Time
}
