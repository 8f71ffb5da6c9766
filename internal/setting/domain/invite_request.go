package domain

import "time"

// InviteRequest is the public pre-invite contact form. It is the one entity
// not scoped to an organization: the requester has no tenant yet.
type InviteRequest struct {
	ID        string
	Name      string
	Email     string
	Message   string
	Handled   bool
	HandledAt *time.Time
	// InviteCode holds the code minted on approval, empty until then.
	InviteCode string
	CreatedAt  time.Time
}
