package join_waitlist

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// Request модель запроса на добавление в лист ожидания
type Request struct {
	TenantID  int64     // ID тенанта
	ServiceID int64     // ID услуги
	StaffID   int64     // ID сотрудника
	StartAt   time.Time // Желаемое начало (UTC)

	CustomerID    *int64 // ID клиента (опционально)
	CustomerName  string // Имя клиента
	CustomerEmail string // Email клиента

	ActorID int64 // ID инициатора запроса (для журнала действий)
}

// Response модель ответа с записью листа ожидания
type Response struct {
	Entry *domain.WaitlistEntry

	// Created false, если клиент уже ждал этот слот (идемпотентный повтор)
	Created bool
}
