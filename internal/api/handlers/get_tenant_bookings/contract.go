package get_tenant_bookings

import (
	"context"

	"github.com/slotmind/booking-engine/internal/domain"
)

type BookingService interface {
	GetTenantBookings(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
