package cancel_booking

import (
	"context"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, tenantID, id int64, reason string) error
}

// WaitlistCoordinator интерфейс координатора листа ожидания
type WaitlistCoordinator interface {
	PromoteOnCancellation(ctx context.Context, tenantID, serviceID, staffID int64, from, to time.Time) (*domain.WaitlistEntry, error)
}

// TenantRepository интерфейс репозитория настроек тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// AuditRecorder интерфейс журнала действий
type AuditRecorder interface {
	Record(ctx context.Context, tenantID int64, action string, entityID int64, metadata map[string]any) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
