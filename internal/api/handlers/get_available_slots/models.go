package get_available_slots

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	getAvailableSlots "github.com/slotmind/booking-engine/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	TenantID        int64    `json:"tenantId"`
	StaffID         int64    `json:"staffId"`
	ServiceID       int64    `json:"serviceId"`
	DurationMinutes int      `json:"durationMinutes"`
	Slots           []string `json:"slots"`
}

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(tenantID, staffID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		TenantID:  tenantID,
		ServiceID: serviceID,
		StaffID:   staffID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(tenantID int64, resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.Format(time.RFC3339)
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		TenantID:        tenantID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
