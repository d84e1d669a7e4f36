package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	bookingRepo "github.com/slotmind/booking-engine/internal/infra/storage/booking"
	"github.com/slotmind/booking-engine/internal/schedule"
	"github.com/slotmind/booking-engine/pkg/txmanager"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	tenantRepo    TenantRepository
	ruleRepo      RuleRepository
	exceptionRepo ExceptionRepository
	quota         QuotaEnforcer
	audit         AuditRecorder
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tenantRepo TenantRepository,
	ruleRepo RuleRepository,
	exceptionRepo ExceptionRepository,
	quota QuotaEnforcer,
	audit AuditRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		tenantRepo:    tenantRepo,
		ruleRepo:      ruleRepo,
		exceptionRepo: exceptionRepo,
		quota:         quota,
		audit:         audit,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case переноса бронирования.
// Окно переноса измеряется относительно ТЕКУЩЕГО начала бронирования.
// Новый интервал проходит проверки лимитов и доступности заново; прежняя
// занятость самого бронирования исключается из проверки коллизий.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: tenant=%d, booking=%d, newStartAt=%s",
		req.TenantID, req.BookingID, req.NewStartAt.Format(time.RFC3339))

	// 1. Получаем текущее время
	now := uc.timeProvider.Now().UTC()

	// 2. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем бронирование (с проверкой принадлежности тенанту)
	booking, err := uc.bookingRepo.GetByID(ctx, req.TenantID, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found for tenant=%d", req.BookingID, req.TenantID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 4. Перенос из отменённого или терминального статуса запрещён
	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d in status %s cannot be rescheduled", booking.ID, booking.Status)
		return nil, ErrInvalidTransition
	}

	// 5. Получаем настройки тенанта
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 6. Окно переноса относительно текущего startAt, не нового
	deadline := booking.StartAt.Add(-tenant.RescheduleNotice())
	if now.After(deadline) {
		uc.logger.Warn("RescheduleBooking: notice window violated for booking id=%d (deadline %s)",
			booking.ID, deadline.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: must reschedule at least %d hours before start",
			ErrNoticeWindowViolation, tenant.RescheduleNoticeHours)
	}

	// 7. Новый интервал сохраняет прежнюю длительность
	duration := booking.EndAt.Sub(booking.StartAt)
	newStartAt := req.NewStartAt.UTC()
	newEndAt := newStartAt.Add(duration)

	// 8. Проверки и обновление в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Лимиты: собственная бронь исключается из подсчёта
		if err := uc.quota.Check(txCtx, tenant, newStartAt, &booking.ID); err != nil {
			uc.logger.Warn("RescheduleBooking: quota check failed for tenant=%d: %v", tenant.ID, err)
			return err
		}

		// 8.2. Доступность нового интервала
		if err := uc.checkAvailability(txCtx, tenant.ID, booking.StaffID, newStartAt, newEndAt); err != nil {
			return err
		}

		// 8.3. Коллизии: окно расширено буфером, собственная занятость
		// исключена
		buffer := time.Duration(tenant.BufferMinutes) * time.Minute
		overlapping, err := uc.bookingRepo.FindActiveOverlapping(
			txCtx, tenant.ID, booking.StaffID, newStartAt.Add(-buffer), newEndAt.Add(buffer), &booking.ID,
		)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to find overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to find overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("RescheduleBooking: slot occupied for staff=%d at %s", booking.StaffID, newStartAt.Format(time.RFC3339))
			return ErrSlotOccupied
		}

		// 8.4. Переносим бронирование
		if err := uc.bookingRepo.Reschedule(txCtx, req.TenantID, booking.ID, newStartAt, newEndAt); err != nil {
			uc.logger.Error("RescheduleBooking: failed to reschedule booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("RescheduleBooking: serialization conflict for booking id=%d", booking.ID)
			return nil, ErrSlotOccupied
		}
		return nil, err
	}

	oldStartAt := booking.StartAt
	booking.StartAt = newStartAt
	booking.EndAt = newEndAt
	booking.Status = domain.StatusRescheduled
	booking.ReminderSentAt = nil

	uc.logger.Info("RescheduleBooking: successfully rescheduled booking id=%d to %s", booking.ID, newStartAt.Format(time.RFC3339))

	// 9. Журналируем перенос (best-effort)
	if err := uc.audit.Record(ctx, req.TenantID, "booking.rescheduled", booking.ID, map[string]any{
		"actor_id":     req.ActorID,
		"old_start_at": oldStartAt.Format(time.RFC3339),
		"new_start_at": newStartAt.Format(time.RFC3339),
	}); err != nil {
		uc.logger.Error("RescheduleBooking: failed to record audit event for booking id=%d: %v", booking.ID, err)
	}

	return &Response{Booking: booking}, nil
}

// checkAvailability проверяет, что интервал целиком лежит в одном из окон
// доступности сотрудника и не пересекает блокирующих исключений
func (uc *UseCase) checkAvailability(ctx context.Context, tenantID, staffID int64, startAt, endAt time.Time) error {
	day := schedule.DayStart(startAt)

	rules, err := uc.ruleRepo.GetActiveForWeekday(ctx, tenantID, staffID, int(day.Weekday()))
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get rules: %v", err)
		return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	exceptions, err := uc.exceptionRepo.GetBlockingForDate(ctx, tenantID, staffID, day)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get exceptions: %v", err)
		return fmt.Errorf("%w: failed to get availability exceptions: %v", ErrInternal, err)
	}

	resolved, err := schedule.Resolve(day, staffID, rules, exceptions)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to resolve schedule: %v", err)
		return fmt.Errorf("%w: failed to resolve schedule: %v", ErrInternal, err)
	}

	window, ok := schedule.MinuteWindowOf(startAt, endAt, day)
	if !ok || !resolved.Allows(window) {
		uc.logger.Warn("RescheduleBooking: interval %s-%s outside availability for staff=%d",
			startAt.Format(time.RFC3339), endAt.Format(time.RFC3339), staffID)
		return ErrOutsideAvailability
	}

	return nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.NewStartAt.IsZero() {
		return fmt.Errorf("%w: newStartAt is required", ErrInvalidInput)
	}

	if !req.NewStartAt.After(now) {
		return fmt.Errorf("%w: newStartAt must be in the future", ErrInvalidInput)
	}

	return nil
}
