package reschedule_booking

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	TenantID   int64     // ID тенанта
	BookingID  int64     // ID бронирования
	NewStartAt time.Time // Новое начало бронирования (UTC)
	ActorID    int64     // ID инициатора запроса (для журнала действий)
}

// Response модель ответа с перенесённым бронированием
type Response struct {
	Booking *domain.Booking
}
