package domain

import "time"

// NormCard is a reference summary of a professional norm or guideline.
type NormCard struct {
	ID               string
	OwnerID          string
	OrganizationID   string
	Title            string
	Source           string
	PracticalSummary string
	Tags             string
	CreatedAt        time.Time
}
