package notifyservice

import "time"

// BookingCreatedEvent уведомление о созданном бронировании
type BookingCreatedEvent struct {
	TenantID      int64     `json:"tenant_id"`
	BookingID     int64     `json:"booking_id"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	ServiceID     int64     `json:"service_id"`
	StaffID       int64     `json:"staff_id"`
	StartAt       time.Time `json:"start_at"`
}

// SlotAvailableEvent уведомление участнику листа ожидания об освободившемся слоте
type SlotAvailableEvent struct {
	TenantID      int64     `json:"tenant_id"`
	EntryID       int64     `json:"entry_id"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	ServiceID     int64     `json:"service_id"`
	StaffID       int64     `json:"staff_id"`
	SlotStartAt   time.Time `json:"slot_start_at"`
}

// BookingReminderEvent напоминание о предстоящем бронировании
type BookingReminderEvent struct {
	TenantID      int64     `json:"tenant_id"`
	BookingID     int64     `json:"booking_id"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	StartAt       time.Time `json:"start_at"`
}
