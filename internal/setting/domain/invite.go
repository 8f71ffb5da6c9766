package domain

import "time"

// InviteCode grants account creation rights into one organization at a
// fixed role, capped by uses and an optional expiry.
type InviteCode struct {
	ID             string
	Code           string // unique, uppercase letters + digits
	OrganizationID string
	Role           Role // assigned to the redeemer
	MaxUses        int
	Uses           int // monotonic, never decremented
	ExpiresAt      *time.Time
	Revoked        bool
	CreatedBy      string // user id of the issuing admin
	CreatedAt      time.Time
}

// Expired reports whether the invite's expiry has passed. An invite without
// an expiry never expires.
func (i InviteCode) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// Exhausted reports whether every permitted use has been consumed.
func (i InviteCode) Exhausted() bool {
	return i.Uses >= i.MaxUses
}

// Remaining returns how many redemptions are left, never below zero.
func (i InviteCode) Remaining() int {
	if r := i.MaxUses - i.Uses; r > 0 {
		return r
	}
	return 0
}

// IsValid is the derived validity predicate. It is evaluated fresh at each
// use, never cached.
func (i InviteCode) IsValid(now time.Time) bool {
	return !i.Revoked && !i.Expired(now) && !i.Exhausted()
}
