package cancel_booking

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	cancelBooking "github.com/slotmind/booking-engine/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	TenantID int64   `json:"tenantId"`
	Reason   *string `json:"reason,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                 int64   `json:"id"`
	TenantID           int64   `json:"tenantId"`
	ServiceID          int64   `json:"serviceId"`
	StaffID            int64   `json:"staffId"`
	CustomerName       string  `json:"customerName"`
	CustomerEmail      string  `json:"customerEmail"`
	StartAt            string  `json:"startAt"`
	EndAt              string  `json:"endAt"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	UpdatedAt          string  `json:"updatedAt"`
}

// CancelBookingResponse HTTP response model: отменённое бронирование и
// ID продвинутой записи листа ожидания (если слот кого-то ждал)
type CancelBookingResponse struct {
	Booking         *BookingResponse `json:"booking"`
	PromotedEntryID *int64           `json:"promotedEntryId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID, actorID int64) *cancelBooking.Request {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &cancelBooking.Request{
		TenantID:  r.TenantID,
		BookingID: bookingID,
		Reason:    reason,
		ActorID:   actorID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	out := &CancelBookingResponse{
		Booking: fromBooking(resp.Booking),
	}
	if resp.PromotedEntry != nil {
		out.PromotedEntryID = &resp.PromotedEntry.ID
	}
	return out
}

func fromBooking(b *domain.Booking) *BookingResponse {
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
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		StartAt:            b.StartAt.Format(time.RFC3339),
		EndAt:              b.EndAt.Format(time.RFC3339),
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CancelledAt:        cancelledAt,
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
}
