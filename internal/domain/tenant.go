package domain

import "time"

// PlanTier represents the subscription tier of a tenant
type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanStarter PlanTier = "starter"
	PlanPro     PlanTier = "pro"
)

// Tenant represents a business using the booking engine. The core reads
// tenant settings but never mutates them; tenant CRUD lives elsewhere.
type Tenant struct {
	ID       int64
	Name     string
	Timezone string
	Plan     PlanTier

	// BufferMinutes is the mandatory gap enforced before and after every
	// active booking of the same staff member.
	BufferMinutes int

	MaxBookingsPerDay  *int
	MaxBookingsPerWeek *int

	CancellationNoticeHours int
	RescheduleNoticeHours   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMonthlyCap returns true if the plan imposes a monthly booking cap.
// Only the free tier is capped; paid tiers are unlimited.
func (t *Tenant) HasMonthlyCap() bool {
	return t.Plan == PlanFree
}

// CancellationNotice returns the minimum lead time required to cancel
func (t *Tenant) CancellationNotice() time.Duration {
	return time.Duration(t.CancellationNoticeHours) * time.Hour
}

// RescheduleNotice returns the minimum lead time required to reschedule
func (t *Tenant) RescheduleNotice() time.Duration {
	return time.Duration(t.RescheduleNoticeHours) * time.Hour
}
