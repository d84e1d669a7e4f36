package cancel_booking

import "github.com/slotmind/booking-engine/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	TenantID  int64  // ID тенанта
	BookingID int64  // ID бронирования
	Reason    string // Причина отмены (опционально)
	ActorID   int64  // ID инициатора запроса (для журнала действий)
}

// Response модель ответа с отменённым бронированием
type Response struct {
	Booking *domain.Booking

	// PromotedEntry запись листа ожидания, продвинутая освобождением
	// слота (nil, если ожидающих не было)
	PromotedEntry *domain.WaitlistEntry
}
