package get_tenant_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/slotmind/booking-engine/internal/api/handlers"
	"github.com/slotmind/booking-engine/internal/service/bookings"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidFilter   = "некорректные параметры фильтра"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/bookings
// Query params: staffId, from, to (RFC3339), status, includeInactive
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	vars := mux.Vars(r)
	tenantIDStr := vars["tenantId"]

	tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/bookings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Собираем фильтр из query параметров
	filter, err := ToFilter(tenantID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/bookings - Invalid filter: tenant_id=%d, error=%v", tenantID, err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	// Получаем бронирования
	result, err := h.service.GetTenantBookings(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/bookings - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /tenants/{id}/bookings - Failed to get bookings: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/bookings - Bookings retrieved successfully: tenant_id=%d, count=%d",
		tenantID, len(result))
	handlers.RespondJSON(w, http.StatusOK, FromBookings(tenantID, result))
}
