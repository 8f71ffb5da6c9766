package domain

import "time"

// Session note stages.
const (
	StagePre    = "pre"
	StageDuring = "during"
	StagePost   = "post"
)

// SessionNote is a clinical note taken before, during or after a session.
// Patients are referenced by alias only, no identifying record exists.
type SessionNote struct {
	ID             string
	OwnerID        string
	OrganizationID string
	PatientAlias   string
	Stage          string
	Content        string
	CreatedAt      time.Time
}
