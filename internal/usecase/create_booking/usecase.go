package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	directoryClient "github.com/slotmind/booking-engine/internal/integrations/directoryservice"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
	"github.com/slotmind/booking-engine/internal/schedule"
	"github.com/slotmind/booking-engine/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	tenantRepo    TenantRepository
	ruleRepo      RuleRepository
	exceptionRepo ExceptionRepository
	quota         QuotaEnforcer
	waitlist      WaitlistCoordinator
	directory     DirectoryServiceClient
	notifyClient  NotifyServiceClient
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
	waitlist WaitlistCoordinator,
	directory DirectoryServiceClient,
	notifyClient NotifyServiceClient,
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
		waitlist:      waitlist,
		directory:     directory,
		notifyClient:  notifyClient,
		audit:         audit,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости слота и вставка выполняются в сериализуемой
// транзакции с блокировкой пересекающихся бронирований (FOR UPDATE):
// из двух конкурентных запросов на один слот ровно один создаст
// бронирование, второй получит ErrSlotOccupied.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%d, service=%d, staff=%d, startAt=%s",
		req.TenantID, req.ServiceID, req.StaffID, req.StartAt.Format(time.RFC3339))

	// 1. Получаем текущее время
	now := uc.timeProvider.Now().UTC()

	// 2. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем настройки тенанта
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		uc.logger.Warn("CreateBooking: tenant id=%d not found: %v", req.TenantID, err)
		return nil, ErrTenantNotFound
	}

	// 4. Получаем услугу из справочника
	service, err := uc.directory.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}
	if err := validateServiceDuration(service.DurationMinutes); err != nil {
		return nil, err
	}

	// 5. Получаем сотрудника из справочника
	staff, err := uc.directory.GetStaff(ctx, req.TenantID, req.StaffID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("CreateBooking: staff id=%d is inactive", req.StaffID)
		return nil, ErrStaffInactive
	}

	// 6. Вычисляем интервал бронирования
	startAt := req.StartAt.UTC()
	endAt := startAt.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// 7. Выполняем проверки и вставку в сериализуемой транзакции
	var result *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Проверяем лимиты тенанта
		if err := uc.quota.Check(txCtx, tenant, startAt, nil); err != nil {
			uc.logger.Warn("CreateBooking: quota check failed for tenant=%d: %v", tenant.ID, err)
			return err
		}

		// 7.2. Проверяем, что интервал лежит внутри доступности
		if err := uc.checkAvailability(txCtx, tenant.ID, req.StaffID, startAt, endAt); err != nil {
			return err
		}

		// 7.3. Получаем пересекающиеся активные бронирования с блокировкой
		// (FOR UPDATE). Окно поиска расширено буфером тенанта: буфер
		// применяется один раз, к кандидату.
		buffer := time.Duration(tenant.BufferMinutes) * time.Minute
		overlapping, err := uc.bookingRepo.FindActiveOverlapping(
			txCtx, tenant.ID, req.StaffID, startAt.Add(-buffer), endAt.Add(buffer), nil,
		)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to find overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to find overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: slot occupied for staff=%d at %s", req.StaffID, startAt.Format(time.RFC3339))
			return ErrSlotOccupied
		}

		// 7.4. Создаем бронирование
		booking := &domain.Booking{
			TenantID:      req.TenantID,
			ServiceID:     req.ServiceID,
			StaffID:       req.StaffID,
			CustomerID:    req.CustomerID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			StartAt:       startAt,
			EndAt:         endAt,
			Status:        domain.StatusConfirmed,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Конфликт сериализации означает, что конкурентная транзакция
		// заняла слот первой
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateBooking: serialization conflict for staff=%d at %s", req.StaffID, startAt.Format(time.RFC3339))
			err = ErrSlotOccupied
		}

		// Занятый слот при включённом AutoWaitlist превращается в запись
		// листа ожидания
		if errors.Is(err, ErrSlotOccupied) && req.AutoWaitlist {
			return uc.divertToWaitlist(ctx, req, startAt)
		}

		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 8. Журналируем и уведомляем (best-effort)
	uc.recordAudit(ctx, req, result)
	uc.notifyCreated(ctx, result)

	return &Response{Booking: result}, nil
}

// checkAvailability проверяет, что интервал целиком лежит в одном из окон
// доступности сотрудника и не пересекает блокирующих исключений
func (uc *UseCase) checkAvailability(ctx context.Context, tenantID, staffID int64, startAt, endAt time.Time) error {
	day := schedule.DayStart(startAt)

	rules, err := uc.ruleRepo.GetActiveForWeekday(ctx, tenantID, staffID, int(day.Weekday()))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get rules: %v", err)
		return fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	exceptions, err := uc.exceptionRepo.GetBlockingForDate(ctx, tenantID, staffID, day)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get exceptions: %v", err)
		return fmt.Errorf("%w: failed to get availability exceptions: %v", ErrInternal, err)
	}

	resolved, err := schedule.Resolve(day, staffID, rules, exceptions)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve schedule: %v", err)
		return fmt.Errorf("%w: failed to resolve schedule: %v", ErrInternal, err)
	}

	window, ok := schedule.MinuteWindowOf(startAt, endAt, day)
	if !ok || !resolved.Allows(window) {
		uc.logger.Warn("CreateBooking: interval %s-%s outside availability for staff=%d",
			startAt.Format(time.RFC3339), endAt.Format(time.RFC3339), staffID)
		return ErrOutsideAvailability
	}

	return nil
}

// divertToWaitlist добавляет клиента в лист ожидания на занятый слот
func (uc *UseCase) divertToWaitlist(ctx context.Context, req *Request, startAt time.Time) (*Response, error) {
	entry := &domain.WaitlistEntry{
		TenantID:         req.TenantID,
		ServiceID:        req.ServiceID,
		StaffID:          req.StaffID,
		CustomerID:       req.CustomerID,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		PreferredStartAt: startAt,
	}

	created, isNew, err := uc.waitlist.Join(ctx, entry)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to join waitlist: %v", err)
		return nil, fmt.Errorf("%w: failed to join waitlist: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: slot occupied, diverted to waitlist entry id=%d (new=%t)", created.ID, isNew)

	if isNew {
		if err := uc.audit.Record(ctx, req.TenantID, "waitlist.joined", created.ID, map[string]any{
			"actor_id":           req.ActorID,
			"staff_id":           req.StaffID,
			"service_id":         req.ServiceID,
			"preferred_start_at": startAt.Format(time.RFC3339),
		}); err != nil {
			uc.logger.Error("CreateBooking: failed to record audit event: %v", err)
		}
	}

	return &Response{WaitlistEntry: created}, nil
}

// recordAudit журналирует создание бронирования (best-effort)
func (uc *UseCase) recordAudit(ctx context.Context, req *Request, booking *domain.Booking) {
	err := uc.audit.Record(ctx, booking.TenantID, "booking.created", booking.ID, map[string]any{
		"actor_id":   req.ActorID,
		"staff_id":   booking.StaffID,
		"service_id": booking.ServiceID,
		"start_at":   booking.StartAt.Format(time.RFC3339),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to record audit event for booking id=%d: %v", booking.ID, err)
	}
}

// notifyCreated отправляет уведомление о созданном бронировании (best-effort)
func (uc *UseCase) notifyCreated(ctx context.Context, booking *domain.Booking) {
	event := notifyservice.BookingCreatedEvent{
		TenantID:      booking.TenantID,
		BookingID:     booking.ID,
		CustomerEmail: booking.CustomerEmail,
		CustomerName:  booking.CustomerName,
		ServiceID:     booking.ServiceID,
		StaffID:       booking.StaffID,
		StartAt:       booking.StartAt,
	}
	if err := uc.notifyClient.NotifyBookingCreated(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: failed to notify booking id=%d: %v", booking.ID, err)
	}
}
