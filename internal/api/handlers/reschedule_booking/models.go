package reschedule_booking

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	rescheduleBooking "github.com/slotmind/booking-engine/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	TenantID   int64  `json:"tenantId"`
	NewStartAt string `json:"newStartAt"` // RFC3339
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	TenantID      int64  `json:"tenantId"`
	ServiceID     int64  `json:"serviceId"`
	StaffID       int64  `json:"staffId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	StartAt       string `json:"startAt"`
	EndAt         string `json:"endAt"`
	Status        string `json:"status"`
	UpdatedAt     string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, actorID int64) (*rescheduleBooking.Request, error) {
	newStartAt, err := time.Parse(time.RFC3339, r.NewStartAt)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		TenantID:   r.TenantID,
		BookingID:  bookingID,
		NewStartAt: newStartAt.UTC(),
		ActorID:    actorID,
	}, nil
}

// FromBooking конвертирует доменное бронирование в HTTP response
func FromBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		TenantID:      b.TenantID,
		ServiceID:     b.ServiceID,
		StaffID:       b.StaffID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		StartAt:       b.StartAt.Format(time.RFC3339),
		EndAt:         b.EndAt.Format(time.RFC3339),
		Status:        string(b.Status),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}
