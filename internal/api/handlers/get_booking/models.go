package get_booking

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                 int64   `json:"id"`
	TenantID           int64   `json:"tenantId"`
	ServiceID          int64   `json:"serviceId"`
	StaffID            int64   `json:"staffId"`
	CustomerID         *int64  `json:"customerId,omitempty"`
	CustomerName       string  `json:"customerName"`
	CustomerEmail      string  `json:"customerEmail"`
	StartAt            string  `json:"startAt"`
	EndAt              string  `json:"endAt"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// FromBooking конвертирует доменное бронирование в HTTP response
func FromBooking(b *domain.Booking) *BookingResponse {
	var cancelledAt *string
	if b.CancelledAt != nil {
		s := b.CancelledAt.Format(time.RFC3339)
		cancelledAt = &s
	}

	return &BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		ServiceID:          b.ServiceID,
		StaffID:            b.StaffID,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		StartAt:            b.StartAt.Format(time.RFC3339),
		EndAt:              b.EndAt.Format(time.RFC3339),
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CancelledAt:        cancelledAt,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
}
