package domain

import (
	"time"

	"github.com/slotmind/booking-engine/pkg/types"
)

// AvailabilityRule describes a recurring weekly working window.
// A rule with StaffID == nil applies to every staff member of the tenant.
type AvailabilityRule struct {
	ID       int64
	TenantID int64

	// Weekday follows time.Weekday numbering: 0 = Sunday ... 6 = Saturday.
	Weekday int

	// StartTime < EndTime is an invariant enforced on write.
	StartTime types.TimeString
	EndTime   types.TimeString

	StaffID *int64
	Active  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesTo returns true if the rule covers the given staff member
func (r *AvailabilityRule) AppliesTo(staffID int64) bool {
	return r.StaffID == nil || *r.StaffID == staffID
}

// MatchesDate returns true if the rule's weekday matches the date (UTC)
func (r *AvailabilityRule) MatchesDate(date time.Time) bool {
	return int(date.UTC().Weekday()) == r.Weekday
}
