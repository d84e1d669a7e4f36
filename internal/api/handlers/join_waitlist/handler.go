package join_waitlist

import (
	"errors"
	"net/http"

	"github.com/slotmind/booking-engine/internal/api/handlers"
	"github.com/slotmind/booking-engine/internal/api/middleware"
	joinWaitlist "github.com/slotmind/booking-engine/internal/usecase/join_waitlist"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTenantNotFound     = "тенант не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "сотрудник не найден"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase JoinWaitlistUseCase
	logger  Logger
}

func NewHandler(useCase JoinWaitlistUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/waitlist
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req JoinWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем ID инициатора из контекста (через middleware Auth)
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /waitlist - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(actorID)
	if err != nil {
		h.logger.Warn("POST /waitlist - Failed to parse startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, joinWaitlist.ErrTenantNotFound):
			h.logger.Warn("POST /waitlist - Tenant not found: tenant_id=%d", req.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, joinWaitlist.ErrServiceNotFound):
			h.logger.Warn("POST /waitlist - Service not found: tenant_id=%d, service_id=%d", req.TenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, joinWaitlist.ErrStaffNotFound):
			h.logger.Warn("POST /waitlist - Staff not found: tenant_id=%d, staff_id=%d", req.TenantID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, joinWaitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist - Invalid input: tenant_id=%d, error=%v", req.TenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /waitlist - Failed to join waitlist: tenant_id=%d, staff_id=%d, error=%v",
				req.TenantID, req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Идемпотентный повтор возвращает существующую запись со статусом 200
	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}

	h.logger.Info("POST /waitlist - Waitlist entry: tenant_id=%d, entry_id=%d, created=%t",
		req.TenantID, result.Entry.ID, result.Created)
	handlers.RespondJSON(w, status, FromEntry(result.Entry))
}
