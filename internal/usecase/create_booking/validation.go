package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if !req.StartAt.After(now) {
		return fmt.Errorf("%w: startAt must be in the future", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if !strings.Contains(req.CustomerEmail, "@") {
		return fmt.Errorf("%w: customerEmail is invalid", ErrInvalidInput)
	}

	return nil
}

// validateServiceDuration проверяет длительность услуги из справочника
func validateServiceDuration(durationMinutes int) error {
	if durationMinutes < domain.MinServiceDurationMinutes {
		return fmt.Errorf("%w: service duration must be at least %d minutes", ErrInvalidInput, domain.MinServiceDurationMinutes)
	}
	return nil
}
