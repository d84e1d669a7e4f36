package create_booking

import (
	"errors"
	"net/http"

	"github.com/slotmind/booking-engine/internal/api/handlers"
	"github.com/slotmind/booking-engine/internal/api/middleware"
	"github.com/slotmind/booking-engine/internal/quota"
	createBooking "github.com/slotmind/booking-engine/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidStartAt      = "некорректный формат времени начала, ожидается RFC3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgTenantNotFound      = "тенант не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgStaffNotFound       = "сотрудник не найден"
	msgServiceInactive     = "услуга отключена"
	msgStaffInactive       = "сотрудник неактивен"
	msgOutsideAvailability = "интервал вне рабочего расписания сотрудника"
	msgSlotOccupied        = "выбранный временной слот занят"
	msgQuotaExceeded       = "превышен лимит бронирований тарифа"
	msgInvalidInput        = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем ID инициатора из контекста (через middleware Auth)
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(actorID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotOccupied):
			h.logger.Warn("POST /bookings - Slot occupied: tenant_id=%d, staff_id=%d", req.TenantID, req.StaffID)
			handlers.RespondConflict(w, msgSlotOccupied)

		case errors.Is(err, quota.ErrQuotaExceeded):
			h.logger.Warn("POST /bookings - Quota exceeded: tenant_id=%d, error=%v", req.TenantID, err)
			handlers.RespondConflict(w, msgQuotaExceeded)

		case errors.Is(err, createBooking.ErrTenantNotFound):
			h.logger.Warn("POST /bookings - Tenant not found: tenant_id=%d", req.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: tenant_id=%d, service_id=%d", req.TenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: tenant_id=%d, staff_id=%d", req.TenantID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: tenant_id=%d, service_id=%d", req.TenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrStaffInactive):
			h.logger.Warn("POST /bookings - Staff inactive: tenant_id=%d, staff_id=%d", req.TenantID, req.StaffID)
			handlers.RespondBadRequest(w, msgStaffInactive)

		case errors.Is(err, createBooking.ErrOutsideAvailability):
			h.logger.Warn("POST /bookings - Outside availability: tenant_id=%d, staff_id=%d, start_at=%s",
				req.TenantID, req.StaffID, req.StartAt)
			handlers.RespondBadRequest(w, msgOutsideAvailability)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: tenant_id=%d, error=%v", req.TenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant_id=%d, staff_id=%d, error=%v",
				req.TenantID, req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// При занятом слоте и autoWaitlist=true возвращается запись листа
	// ожидания со статусом 202
	if result.WaitlistEntry != nil {
		h.logger.Info("POST /bookings - Diverted to waitlist: tenant_id=%d, entry_id=%d",
			req.TenantID, result.WaitlistEntry.ID)
		handlers.RespondJSON(w, http.StatusAccepted, FromWaitlistEntry(result.WaitlistEntry))
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: tenant_id=%d, booking_id=%d",
		req.TenantID, result.Booking.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromBooking(result.Booking))
}
