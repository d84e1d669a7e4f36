package domain

import "time"

// WaitlistStatus represents the status of a waitlist entry
type WaitlistStatus string

const (
	WaitlistWaiting  WaitlistStatus = "waiting"
	WaitlistNotified WaitlistStatus = "notified"
)

// WaitlistEntry records a customer waiting for an occupied slot.
// The waiting -> notified transition happens exactly once and never reverts.
type WaitlistEntry struct {
	ID       int64
	TenantID int64

	ServiceID int64
	StaffID   int64

	CustomerID    *int64
	CustomerName  string
	CustomerEmail string

	PreferredStartAt time.Time

	Status     WaitlistStatus
	NotifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsWaiting returns true if the entry is still eligible for promotion
func (w *WaitlistEntry) IsWaiting() bool {
	return w.Status == WaitlistWaiting
}
