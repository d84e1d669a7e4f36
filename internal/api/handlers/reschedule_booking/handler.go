package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/slotmind/booking-engine/internal/api/handlers"
	"github.com/slotmind/booking-engine/internal/api/middleware"
	"github.com/slotmind/booking-engine/internal/quota"
	rescheduleBooking "github.com/slotmind/booking-engine/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidNewStartAt   = "некорректный формат нового времени начала, ожидается RFC3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "бронирование не найдено"
	msgCannotReschedule    = "бронирование не может быть перенесено"
	msgNoticeViolation     = "слишком поздно для переноса этого бронирования"
	msgOutsideAvailability = "новый интервал вне рабочего расписания сотрудника"
	msgSlotOccupied        = "новый временной слот занят"
	msgQuotaExceeded       = "превышен лимит бронирований тарифа"
	msgInvalidInput        = "некорректные данные запроса"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Декодируем body
	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем ID инициатора из контекста (через middleware Auth)
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(bookingID, actorID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse newStartAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidNewStartAt)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d, tenant_id=%d",
				bookingID, req.TenantID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrSlotOccupied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot occupied: booking_id=%d, new_start_at=%s",
				bookingID, req.NewStartAt)
			handlers.RespondConflict(w, msgSlotOccupied)

		case errors.Is(err, quota.ErrQuotaExceeded):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Quota exceeded: tenant_id=%d, error=%v",
				req.TenantID, err)
			handlers.RespondConflict(w, msgQuotaExceeded)

		case errors.Is(err, rescheduleBooking.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid transition: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, rescheduleBooking.ErrNoticeWindowViolation):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Notice window violated: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgNoticeViolation)

		case errors.Is(err, rescheduleBooking.ErrOutsideAvailability):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Outside availability: booking_id=%d, new_start_at=%s",
				bookingID, req.NewStartAt)
			handlers.RespondBadRequest(w, msgOutsideAvailability)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled successfully: booking_id=%d, tenant_id=%d",
		bookingID, req.TenantID)
	handlers.RespondJSON(w, http.StatusOK, FromBooking(result.Booking))
}
