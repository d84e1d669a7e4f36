package waitlist

import (
	"context"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	FindWaiting(ctx context.Context, tenantID, serviceID, staffID int64, customerEmail string, preferredStartAt time.Time) (*domain.WaitlistEntry, error)
	FindEarliestWaitingInRange(ctx context.Context, tenantID, serviceID, staffID int64, from, to time.Time) (*domain.WaitlistEntry, error)
	MarkNotified(ctx context.Context, id int64, notifiedAt time.Time) error
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	NotifyWaitlistSlotAvailable(ctx context.Context, event notifyservice.SlotAvailableEvent) error
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

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
