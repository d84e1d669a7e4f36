package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	waitlistRepo "github.com/slotmind/booking-engine/internal/infra/storage/waitlist"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
)

// Coordinator управляет листом ожидания: идемпотентное добавление и
// FIFO-продвижение при освобождении слота
type Coordinator struct {
	waitlistRepo WaitlistRepository
	notifyClient NotifyServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewCoordinator создает новый координатор листа ожидания
func NewCoordinator(
	waitlistRepo WaitlistRepository,
	notifyClient NotifyServiceClient,
	timeProvider TimeProvider,
	logger Logger,
) *Coordinator {
	return &Coordinator{
		waitlistRepo: waitlistRepo,
		notifyClient: notifyClient,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Join добавляет клиента в лист ожидания на занятый слот.
// Повторный запрос того же клиента на тот же слот возвращает существующую
// запись без создания дубликата. Второй результат сообщает, была ли
// запись создана этим вызовом.
func (c *Coordinator) Join(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, bool, error) {
	// 1. Ищем существующую ожидающую запись клиента на этот слот
	existing, err := c.waitlistRepo.FindWaiting(
		ctx,
		entry.TenantID,
		entry.ServiceID,
		entry.StaffID,
		entry.CustomerEmail,
		entry.PreferredStartAt,
	)
	if err == nil {
		c.logger.Info("Join: entry already exists id=%d tenant=%d slot=%s", existing.ID, existing.TenantID, existing.PreferredStartAt.Format(time.RFC3339))
		return existing, false, nil
	}
	if !errors.Is(err, waitlistRepo.ErrEntryNotFound) {
		c.logger.Error("Join: repository error for tenant=%d: %v", entry.TenantID, err)
		return nil, false, fmt.Errorf("%w: Join - find waiting entry: %v", ErrInternal, err)
	}

	// 2. Создаем новую запись
	entry.Status = domain.WaitlistWaiting
	created, err := c.waitlistRepo.Create(ctx, entry)
	if err != nil {
		c.logger.Error("Join: failed to create entry for tenant=%d: %v", entry.TenantID, err)
		return nil, false, fmt.Errorf("%w: Join - create entry: %v", ErrInternal, err)
	}

	c.logger.Info("Join: created entry id=%d tenant=%d staff=%d slot=%s", created.ID, created.TenantID, created.StaffID, created.PreferredStartAt.Format(time.RFC3339))
	return created, true, nil
}

// PromoteOnCancellation продвигает самую раннюю ожидающую запись,
// чей слот попадает в освободившийся интервал [from, to).
//
// Продвигается ровно одна запись (FIFO по created_at), переход
// waiting -> notified одноразовый. Уведомление best-effort: ошибка
// отправки логируется, но не откатывает продвижение.
// Возвращает продвинутую запись или nil, если ожидающих нет.
func (c *Coordinator) PromoteOnCancellation(ctx context.Context, tenantID, serviceID, staffID int64, from, to time.Time) (*domain.WaitlistEntry, error) {
	// 1. Ищем самую раннюю ожидающую запись той же услуги и сотрудника
	// на освободившийся интервал
	entry, err := c.waitlistRepo.FindEarliestWaitingInRange(ctx, tenantID, serviceID, staffID, from, to)
	if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("PromoteOnCancellation: repository error for tenant=%d staff=%d: %v", tenantID, staffID, err)
		return nil, fmt.Errorf("%w: PromoteOnCancellation - find waiting entry: %v", ErrInternal, err)
	}

	// 2. Переводим запись в notified
	now := c.timeProvider.Now().UTC()
	if err := c.waitlistRepo.MarkNotified(ctx, entry.ID, now); err != nil {
		// Запись могла быть продвинута конкурентной отменой
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			c.logger.Warn("PromoteOnCancellation: entry id=%d already promoted", entry.ID)
			return nil, nil
		}
		c.logger.Error("PromoteOnCancellation: failed to mark entry id=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: PromoteOnCancellation - mark notified: %v", ErrInternal, err)
	}

	entry.Status = domain.WaitlistNotified
	entry.NotifiedAt = &now

	// 3. Уведомляем клиента об освободившемся слоте (best-effort)
	event := notifyservice.SlotAvailableEvent{
		TenantID:      entry.TenantID,
		EntryID:       entry.ID,
		CustomerEmail: entry.CustomerEmail,
		CustomerName:  entry.CustomerName,
		ServiceID:     entry.ServiceID,
		StaffID:       entry.StaffID,
		SlotStartAt:   entry.PreferredStartAt,
	}
	if err := c.notifyClient.NotifyWaitlistSlotAvailable(ctx, event); err != nil {
		c.logger.Error("PromoteOnCancellation: failed to notify entry id=%d: %v", entry.ID, err)
	} else {
		c.logger.Info("PromoteOnCancellation: promoted entry id=%d tenant=%d staff=%d", entry.ID, tenantID, staffID)
	}

	return entry, nil
}
