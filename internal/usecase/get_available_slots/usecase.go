package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	directoryClient "github.com/slotmind/booking-engine/internal/integrations/directoryservice"
	"github.com/slotmind/booking-engine/internal/schedule"
)

// UseCase use case для получения доступных слотов сотрудника на дату
type UseCase struct {
	bookingRepo   BookingRepository
	tenantRepo    TenantRepository
	ruleRepo      RuleRepository
	exceptionRepo ExceptionRepository
	quota         QuotaEnforcer
	directory     DirectoryServiceClient
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
	directory DirectoryServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		tenantRepo:    tenantRepo,
		ruleRepo:      ruleRepo,
		exceptionRepo: exceptionRepo,
		quota:         quota,
		directory:     directory,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Если любой лимит тенанта на дату уже достигнут, список возвращается
// пустым целиком, без пофильтровой обработки слотов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, service=%d, staff=%d, date=%s",
		req.TenantID, req.ServiceID, req.StaffID, req.Date.Format("2006-01-02"))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	day := schedule.DayStart(req.Date)

	// 2. Получаем настройки тенанта
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: tenant id=%d not found: %v", req.TenantID, err)
		return nil, ErrTenantNotFound
	}

	// 3. Получаем услугу и сотрудника из справочника
	service, err := uc.directory.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	staff, err := uc.directory.GetStaff(ctx, req.TenantID, req.StaffID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:            day,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []time.Time{},
	}

	// Неактивная услуга или сотрудник не бронируются
	if !service.Active || !staff.Active {
		uc.logger.Info("GetAvailableSlots: service or staff inactive, returning empty list")
		return resp, nil
	}

	// 4. Достигнутый лимит опустошает весь список на дату
	canAccept, err := uc.quota.CanAccept(ctx, tenant, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: quota check failed for tenant=%d: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: quota check failed: %v", ErrInternal, err)
	}
	if !canAccept {
		uc.logger.Info("GetAvailableSlots: quota reached for tenant=%d on %s", tenant.ID, day.Format("2006-01-02"))
		return resp, nil
	}

	// 5. Собираем доступность из правил и исключений
	rules, err := uc.ruleRepo.GetActiveForWeekday(ctx, req.TenantID, req.StaffID, int(day.Weekday()))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability rules: %v", ErrInternal, err)
	}

	exceptions, err := uc.exceptionRepo.GetBlockingForDate(ctx, req.TenantID, req.StaffID, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability exceptions: %v", ErrInternal, err)
	}

	resolved, err := schedule.Resolve(day, req.StaffID, rules, exceptions)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve schedule: %v", ErrInternal, err)
	}

	// 6. Занятость сотрудника за сутки с запасом на буфер
	buffer := time.Duration(tenant.BufferMinutes) * time.Minute
	bookings, err := uc.bookingRepo.FindActiveOverlapping(
		ctx, req.TenantID, req.StaffID, day.Add(-buffer), day.AddDate(0, 0, 1).Add(buffer), nil,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты и отбрасываем уже прошедшие
	now := uc.timeProvider.Now().UTC()
	slots := schedule.GenerateSlots(resolved, service.DurationMinutes, tenant.BufferMinutes, schedule.BusyIntervals(bookings, nil))
	for _, slot := range slots {
		if slot.After(now) {
			resp.Slots = append(resp.Slots, slot)
		}
	}

	uc.logger.Info("GetAvailableSlots: %d slots for staff=%d on %s", len(resp.Slots), req.StaffID, day.Format("2006-01-02"))
	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
