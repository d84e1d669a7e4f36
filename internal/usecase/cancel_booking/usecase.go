package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	bookingRepo "github.com/slotmind/booking-engine/internal/infra/storage/booking"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	tenantRepo   TenantRepository
	waitlist     WaitlistCoordinator
	audit        AuditRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	tenantRepo TenantRepository,
	waitlist WaitlistCoordinator,
	audit AuditRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tenantRepo:   tenantRepo,
		waitlist:     waitlist,
		audit:        audit,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования.
// Отмена уже отменённого бронирования идемпотентна: возвращается текущее
// состояние без побочных эффектов. Успешная отмена запускает продвижение
// листа ожидания на освободившийся интервал.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: tenant=%d, booking=%d", req.TenantID, req.BookingID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование (с проверкой принадлежности тенанту)
	booking, err := uc.bookingRepo.GetByID(ctx, req.TenantID, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%d not found for tenant=%d", req.BookingID, req.TenantID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Идемпотентность: повторная отмена возвращает бронирование как есть
	if booking.IsCancelled() {
		uc.logger.Info("CancelBooking: booking id=%d already cancelled", booking.ID)
		return &Response{Booking: booking}, nil
	}

	// 4. Из терминальных статусов отмена запрещена
	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking id=%d in terminal status %s", booking.ID, booking.Status)
		return nil, ErrInvalidTransition
	}

	// 5. Проверяем окно отмены относительно начала бронирования
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now().UTC()
	deadline := booking.StartAt.Add(-tenant.CancellationNotice())
	if now.After(deadline) {
		uc.logger.Warn("CancelBooking: notice window violated for booking id=%d (deadline %s)",
			booking.ID, deadline.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: must cancel at least %d hours before start",
			ErrNoticeWindowViolation, tenant.CancellationNoticeHours)
	}

	// 6. Отменяем бронирование
	if err := uc.bookingRepo.Cancel(ctx, req.TenantID, booking.ID, req.Reason); err != nil {
		uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCancelled
	booking.CancellationReason = &req.Reason
	booking.CancelledAt = &now

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%d", booking.ID)

	// 7. Журналируем отмену (best-effort)
	if err := uc.audit.Record(ctx, req.TenantID, "booking.cancelled", booking.ID, map[string]any{
		"actor_id": req.ActorID,
		"reason":   req.Reason,
	}); err != nil {
		uc.logger.Error("CancelBooking: failed to record audit event for booking id=%d: %v", booking.ID, err)
	}

	// 8. Продвигаем лист ожидания на освободившийся интервал.
	// Ошибка продвижения логируется: отмена уже состоялась
	promoted, err := uc.waitlist.PromoteOnCancellation(ctx, req.TenantID, booking.ServiceID, booking.StaffID, booking.StartAt, booking.EndAt)
	if err != nil {
		uc.logger.Error("CancelBooking: waitlist promotion failed for booking id=%d: %v", booking.ID, err)
		promoted = nil
	}

	return &Response{Booking: booking, PromotedEntry: promoted}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}
