package join_waitlist

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	joinWaitlist "github.com/slotmind/booking-engine/internal/usecase/join_waitlist"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	TenantID      int64  `json:"tenantId"`
	ServiceID     int64  `json:"serviceId"`
	StaffID       int64  `json:"staffId"`
	StartAt       string `json:"startAt"` // RFC3339
	CustomerID    *int64 `json:"customerId,omitempty"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
}

// WaitlistEntryResponse HTTP response model
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
func (r *JoinWaitlistRequest) ToUseCaseRequest(actorID int64) (*joinWaitlist.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &joinWaitlist.Request{
		TenantID:      r.TenantID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		StartAt:       startAt.UTC(),
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		ActorID:       actorID,
	}, nil
}

// FromEntry конвертирует запись листа ожидания в HTTP response
func FromEntry(e *domain.WaitlistEntry) *WaitlistEntryResponse {
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
