package get_tenant_bookings

import (
	"net/url"
	"strconv"
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
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// TenantBookingsResponse HTTP response model со списком бронирований
type TenantBookingsResponse struct {
	TenantID int64              `json:"tenantId"`
	Bookings []*BookingResponse `json:"bookings"`
}

// ToFilter собирает фильтр из query параметров:
// staffId, from, to (RFC3339), status, includeInactive
func ToFilter(tenantID int64, query url.Values) (domain.TenantBookingsFilter, error) {
	filter := domain.TenantBookingsFilter{TenantID: tenantID}

	if raw := query.Get("staffId"); raw != "" {
		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.StaffID = &staffID
	}

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		from = from.UTC()
		filter.StartAt = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		to = to.UTC()
		filter.EndAt = &to
	}

	if raw := query.Get("status"); raw != "" {
		status := domain.BookingStatus(raw)
		filter.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.IncludeInactive = includeInactive
	}

	return filter, nil
}

// FromBookings конвертирует доменные бронирования в HTTP response
func FromBookings(tenantID int64, bookings []*domain.Booking) *TenantBookingsResponse {
	out := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = &BookingResponse{
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

	return &TenantBookingsResponse{
		TenantID: tenantID,
		Bookings: out,
	}
}
