package join_waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	directoryClient "github.com/slotmind/booking-engine/internal/integrations/directoryservice"
)

// UseCase use case для добавления клиента в лист ожидания
type UseCase struct {
	tenantRepo   TenantRepository
	waitlist     WaitlistCoordinator
	directory    DirectoryServiceClient
	audit        AuditRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	waitlist WaitlistCoordinator,
	directory DirectoryServiceClient,
	audit AuditRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:   tenantRepo,
		waitlist:     waitlist,
		directory:    directory,
		audit:        audit,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case добавления в лист ожидания.
// Повторный запрос того же клиента на тот же слот идемпотентен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("JoinWaitlist: tenant=%d, service=%d, staff=%d, startAt=%s",
		req.TenantID, req.ServiceID, req.StaffID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	now := uc.timeProvider.Now().UTC()
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("JoinWaitlist: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование тенанта
	if _, err := uc.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		uc.logger.Warn("JoinWaitlist: tenant id=%d not found: %v", req.TenantID, err)
		return nil, ErrTenantNotFound
	}

	// 3. Проверяем ссылки на услугу и сотрудника
	if _, err := uc.directory.GetService(ctx, req.TenantID, req.ServiceID); err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("JoinWaitlist: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if _, err := uc.directory.GetStaff(ctx, req.TenantID, req.StaffID); err != nil {
		if errors.Is(err, directoryClient.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("JoinWaitlist: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// 4. Добавляем в лист ожидания (идемпотентно)
	entry := &domain.WaitlistEntry{
		TenantID:         req.TenantID,
		ServiceID:        req.ServiceID,
		StaffID:          req.StaffID,
		CustomerID:       req.CustomerID,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		PreferredStartAt: req.StartAt.UTC(),
	}

	created, isNew, err := uc.waitlist.Join(ctx, entry)
	if err != nil {
		uc.logger.Error("JoinWaitlist: failed to join waitlist: %v", err)
		return nil, fmt.Errorf("%w: failed to join waitlist: %v", ErrInternal, err)
	}

	uc.logger.Info("JoinWaitlist: entry id=%d (new=%t)", created.ID, isNew)

	// 5. Журналируем только новые записи (best-effort)
	if isNew {
		if err := uc.audit.Record(ctx, req.TenantID, "waitlist.joined", created.ID, map[string]any{
			"actor_id":           req.ActorID,
			"staff_id":           req.StaffID,
			"service_id":         req.ServiceID,
			"preferred_start_at": created.PreferredStartAt.Format(time.RFC3339),
		}); err != nil {
			uc.logger.Error("JoinWaitlist: failed to record audit event: %v", err)
		}
	}

	return &Response{Entry: created, Created: isNew}, nil
}

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

	if !strings.Contains(req.CustomerEmail, "@") {
		return fmt.Errorf("%w: customerEmail is invalid", ErrInvalidInput)
	}

	return nil
}
