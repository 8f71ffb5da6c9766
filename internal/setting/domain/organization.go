// Package domain defines the entities of the practice-management system.
// The organization (clinic) is the tenancy boundary: every clinical entity
// carries the organization id it belongs to.
package domain

import "time"

type Organization struct {
	ID        string
	Name      string // unique
	CreatedAt time.Time
}
