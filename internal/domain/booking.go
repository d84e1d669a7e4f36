package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusPending is reserved for a future asynchronous confirmation flow;
	// the direct creation path never produces it, but it counts as active.
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusRescheduled BookingStatus = "rescheduled"
	StatusCancelled   BookingStatus = "cancelled"
	StatusCompleted   BookingStatus = "completed"
	StatusNoShow      BookingStatus = "no_show"
)

// Booking represents a confirmed reservation of a staff member's time
// for a single service. Bookings are never deleted, only transitioned.
type Booking struct {
	ID       int64
	TenantID int64

	ServiceID int64
	StaffID   int64

	CustomerID    *int64
	CustomerName  string
	CustomerEmail string

	// StartAt/EndAt are absolute UTC instants; EndAt = StartAt + service duration.
	StartAt time.Time
	EndAt   time.Time

	Status BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its interval for
// collision and quota purposes
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending ||
		b.Status == StatusConfirmed ||
		b.Status == StatusRescheduled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsTerminal returns true for states that admit no further transitions
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusNoShow
}

// CanBeCancelled returns true if a cancel transition is legal from the
// current status. A cancelled booking reports false; callers treat that
// case as an idempotent no-op rather than an error.
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal() && !b.IsCancelled()
}

// CanBeRescheduled returns true if a reschedule transition is legal
func (b *Booking) CanBeRescheduled() bool {
	return !b.IsTerminal() && !b.IsCancelled()
}

// TenantBookingsFilter фильтр для получения бронирований тенанта
type TenantBookingsFilter struct {
	TenantID        int64          // Обязательный параметр
	StaffID         *int64         // Фильтр по сотруднику (опционально)
	StartAt         *time.Time     // Начало периода (опционально)
	EndAt           *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые/завершённые бронирования
}

// ValidBookingStatus reports whether s is one of the known statuses
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRescheduled, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}
