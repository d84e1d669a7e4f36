package create_booking

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	createBooking "github.com/slotmind/booking-engine/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TenantID      int64  `json:"tenantId"`
	ServiceID     int64  `json:"serviceId"`
	StaffID       int64  `json:"staffId"`
	StartAt       string `json:"startAt"` // RFC3339, например "2026-03-02T10:00:00Z"
	CustomerID    *int64 `json:"customerId,omitempty"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	AutoWaitlist  bool   `json:"autoWaitlist,omitempty"`
}

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
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// WaitlistEntryResponse HTTP response model записи листа ожидания
// (возвращается при занятом слоте и autoWaitlist=true)
type WaitlistEntryResponse struct {
	ID               int64  `json:"id"`
	TenantID         int64  `json:"tenantId"`
	ServiceID        int64  `json:"serviceId"`
	StaffID          int64  `json:"staffId"`
	CustomerID       *int64 `json:"customerId,omitempty"`
	CustomerName     string `json:"customerName"`
	CustomerEmail    string `json:"customerEmail"`
	PreferredStartAt string `json:"preferredStartAt"`
	Status           string `json:"status"`
	CreatedAt        string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actorID int64) (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		TenantID:      r.TenantID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		StartAt:       startAt.UTC(),
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		AutoWaitlist:  r.AutoWaitlist,
		ActorID:       actorID,
	}, nil
}

// FromBooking конвертирует доменное бронирование в HTTP response
func FromBooking(b *domain.Booking) *BookingResponse {
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
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromWaitlistEntry конвертирует запись листа ожидания в HTTP response
func FromWaitlistEntry(e *domain.WaitlistEntry) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:               e.ID,
		TenantID:         e.TenantID,
		ServiceID:        e.ServiceID,
		StaffID:          e.StaffID,
		CustomerID:       e.CustomerID,
		CustomerName:     e.CustomerName,
		CustomerEmail:    e.CustomerEmail,
		PreferredStartAt: e.PreferredStartAt.Format(time.RFC3339),
		Status:           string(e.Status),
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
	}
}
