package create_booking

import (
	"context"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/internal/integrations/directoryservice"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindActiveOverlapping(ctx context.Context, tenantID, staffID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error)
}

// TenantRepository интерфейс репозитория настроек тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	GetActiveForWeekday(ctx context.Context, tenantID, staffID int64, weekday int) ([]*domain.AvailabilityRule, error)
}

// ExceptionRepository интерфейс репозитория исключений доступности
type ExceptionRepository interface {
	GetBlockingForDate(ctx context.Context, tenantID, staffID int64, date time.Time) ([]*domain.AvailabilityException, error)
}

// QuotaEnforcer интерфейс проверки лимитов тенанта
type QuotaEnforcer interface {
	Check(ctx context.Context, tenant *domain.Tenant, at time.Time, excludeID *int64) error
}

// WaitlistCoordinator интерфейс координатора листа ожидания
type WaitlistCoordinator interface {
	Join(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, bool, error)
}

// DirectoryServiceClient интерфейс клиента для DirectoryService
type DirectoryServiceClient interface {
	GetStaff(ctx context.Context, tenantID, staffID int64) (*directoryservice.Staff, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*directoryservice.Service, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	NotifyBookingCreated(ctx context.Context, event notifyservice.BookingCreatedEvent) error
}

// AuditRecorder интерфейс журнала действий
type AuditRecorder interface {
	Record(ctx context.Context, tenantID int64, action string, entityID int64, metadata map[string]any) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
