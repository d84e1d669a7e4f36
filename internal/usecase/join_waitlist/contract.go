package join_waitlist

import (
	"context"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/internal/integrations/directoryservice"
)

// WaitlistCoordinator интерфейс координатора листа ожидания
type WaitlistCoordinator interface {
	Join(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, bool, error)
}

// TenantRepository интерфейс репозитория настроек тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// DirectoryServiceClient интерфейс клиента для DirectoryService
type DirectoryServiceClient interface {
	GetStaff(ctx context.Context, tenantID, staffID int64) (*directoryservice.Staff, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*directoryservice.Service, error)
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
