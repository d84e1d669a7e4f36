package domain

import (
	"time"

	"github.com/slotmind/booking-engine/pkg/types"
)

// AvailabilityException is a date-specific override. When IsUnavailable is
// true it subtracts time from rule-derived availability: either the window
// [StartTime, EndTime) or, when both are nil, the entire day.
type AvailabilityException struct {
	ID       int64
	TenantID int64

	// Date is the calendar day the exception applies to (UTC midnight).
	Date time.Time

	StartTime *types.TimeString
	EndTime   *types.TimeString

	IsUnavailable bool
	StaffID       *int64
	Note          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFullDay returns true if the exception covers the whole day
func (e *AvailabilityException) IsFullDay() bool {
	return e.StartTime == nil || e.EndTime == nil
}

// AppliesTo returns true if the exception covers the given staff member
func (e *AvailabilityException) AppliesTo(staffID int64) bool {
	return e.StaffID == nil || *e.StaffID == staffID
}

// MatchesDate returns true if the exception is dated for the given day (UTC)
func (e *AvailabilityException) MatchesDate(date time.Time) bool {
	y1, m1, d1 := e.Date.UTC().Date()
	y2, m2, d2 := date.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
