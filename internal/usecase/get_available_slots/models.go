package get_available_slots

import "time"

// Request модель запроса доступных слотов
type Request struct {
	TenantID  int64     // ID тенанта
	ServiceID int64     // ID услуги
	StaffID   int64     // ID сотрудника
	Date      time.Time // Дата (UTC, время игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time   // Запрошенная дата (UTC полночь)
	StaffID         int64       // ID сотрудника
	ServiceID       int64       // ID услуги
	DurationMinutes int         // Длительность услуги
	Slots           []time.Time // Кандидаты начала, по возрастанию
}
