package domain

// Slot generation constants
const (
	// SlotStepMinutes is the fixed stride between candidate slot starts.
	// It is deliberately independent of service duration: slots are
	// candidate start times, not a partition of the day, so adjacent
	// slots of a long service may cover overlapping intervals.
	SlotStepMinutes = 15

	// MinServiceDurationMinutes minimum allowed service duration
	MinServiceDurationMinutes = 5
)

// Plan limits
const (
	// FreePlanMonthlyBookingCap active bookings allowed per calendar month
	// on the free tier; paid tiers are uncapped.
	FreePlanMonthlyBookingCap = 50
)

// Business validation constants
const (
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых бронирование занимает свой
// интервал и учитывается в квотах
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusRescheduled,
}

// InactiveStatuses список статусов, исключаемых при подсчёте занятости
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
