// Package quota проверяет лимиты бронирований тенанта: месячный лимит
// тарифа, дневной и недельный лимиты из настроек.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// ErrQuotaExceeded сигнальная ошибка превышения лимита.
// Конкретный лимит доступен через errors.As с *LimitError.
var ErrQuotaExceeded = errors.New("quota: limit exceeded")

// Scope вид лимита
type Scope string

const (
	ScopeMonthly Scope = "monthly"
	ScopeDaily   Scope = "daily"
	ScopeWeekly  Scope = "weekly"
)

// LimitError описывает, какой именно лимит был превышен
type LimitError struct {
	Scope Scope
	Limit int
	Count int
}

// Error реализует error
func (e *LimitError) Error() string {
	return fmt.Sprintf("quota: %s limit exceeded: %d of %d bookings used", e.Scope, e.Count, e.Limit)
}

// Is делает errors.Is(err, ErrQuotaExceeded) истинным для любого LimitError
func (e *LimitError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// BookingCounter интерфейс подсчёта активных бронирований тенанта в окне времени
type BookingCounter interface {
	CountActiveInRange(ctx context.Context, tenantID int64, from, to time.Time, excludeID *int64) (int, error)
}

// Enforcer проверяет лимиты по текущему состоянию хранилища
type Enforcer struct {
	counter BookingCounter
}

// NewEnforcer создает новый enforcer
func NewEnforcer(counter BookingCounter) *Enforcer {
	return &Enforcer{counter: counter}
}

// Check проверяет лимиты для бронирования на момент at.
// Лимиты проверяются по порядку: месячный лимит тарифа, дневной, недельный;
// первый превышенный лимит определяет ошибку. excludeID исключает из
// подсчёта переносимое бронирование.
func (e *Enforcer) Check(ctx context.Context, tenant *domain.Tenant, at time.Time, excludeID *int64) error {
	// 1. Месячный лимит тарифа (только free)
	if tenant.HasMonthlyCap() {
		from, to := MonthWindow(at)
		count, err := e.counter.CountActiveInRange(ctx, tenant.ID, from, to, excludeID)
		if err != nil {
			return fmt.Errorf("quota: count monthly bookings: %w", err)
		}
		if count >= domain.FreePlanMonthlyBookingCap {
			return &LimitError{Scope: ScopeMonthly, Limit: domain.FreePlanMonthlyBookingCap, Count: count}
		}
	}

	// 2. Дневной лимит из настроек тенанта
	if tenant.MaxBookingsPerDay != nil {
		from, to := DayWindow(at)
		count, err := e.counter.CountActiveInRange(ctx, tenant.ID, from, to, excludeID)
		if err != nil {
			return fmt.Errorf("quota: count daily bookings: %w", err)
		}
		if count >= *tenant.MaxBookingsPerDay {
			return &LimitError{Scope: ScopeDaily, Limit: *tenant.MaxBookingsPerDay, Count: count}
		}
	}

	// 3. Недельный лимит из настроек тенанта
	if tenant.MaxBookingsPerWeek != nil {
		from, to := WeekWindow(at)
		count, err := e.counter.CountActiveInRange(ctx, tenant.ID, from, to, excludeID)
		if err != nil {
			return fmt.Errorf("quota: count weekly bookings: %w", err)
		}
		if count >= *tenant.MaxBookingsPerWeek {
			return &LimitError{Scope: ScopeWeekly, Limit: *tenant.MaxBookingsPerWeek, Count: count}
		}
	}

	return nil
}

// CanAccept read-only вариант Check: те же три проверки без ошибки лимита.
// Используется при выдаче публичных слотов — при достигнутом лимите весь
// список слотов на дату возвращается пустым.
func (e *Enforcer) CanAccept(ctx context.Context, tenant *domain.Tenant, at time.Time) (bool, error) {
	err := e.Check(ctx, tenant, at, nil)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return false, nil
	}
	return false, err
}

// DayWindow возвращает границы UTC-суток, содержащих t: [00:00, 00:00+24h)
func DayWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	from := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

// WeekWindow возвращает границы ISO-недели (с понедельника), содержащей t.
// Воскресенье нормализуется к предыдущему понедельнику.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	// time.Weekday: Sunday=0; смещение до понедельника недели
	offset := (int(day.Weekday()) + 6) % 7
	from := day.AddDate(0, 0, -offset)
	return from, from.AddDate(0, 0, 7)
}

// MonthWindow возвращает границы календарного месяца (UTC), содержащего t
func MonthWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	from := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
