package create_booking

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID  int64     // ID тенанта
	ServiceID int64     // ID услуги
	StaffID   int64     // ID сотрудника
	StartAt   time.Time // Начало бронирования (абсолютный момент, UTC)

	CustomerID    *int64 // ID клиента (опционально)
	CustomerName  string // Имя клиента
	CustomerEmail string // Email клиента

	// AutoWaitlist при занятом слоте добавляет клиента в лист ожидания
	// вместо возврата ошибки
	AutoWaitlist bool

	ActorID int64 // ID инициатора запроса (для журнала действий)
}

// Response модель ответа: либо созданное бронирование, либо запись
// листа ожидания (при занятом слоте и включённом AutoWaitlist)
type Response struct {
	Booking       *domain.Booking
	WaitlistEntry *domain.WaitlistEntry
}
