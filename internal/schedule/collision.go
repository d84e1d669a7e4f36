package schedule

import (
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// Expand расширяет интервал на buffer минут в обе стороны.
// Расширение применяется ровно один раз — к кандидату; существующие
// бронирования сравниваются как есть, так что буфер защищает обе
// стороны каждого бронирования без двойного счёта.
func Expand(i Interval, bufferMinutes int) Interval {
	if bufferMinutes <= 0 {
		return i
	}
	buf := time.Duration(bufferMinutes) * time.Minute
	return Interval{Start: i.Start.Add(-buf), End: i.End.Add(buf)}
}

// Collides проверяет, пересекается ли кандидат (расширенный на буфер)
// хотя бы с одним из занятых интервалов
func Collides(candidate Interval, bufferMinutes int, busy []Interval) bool {
	expanded := Expand(candidate, bufferMinutes)
	for _, b := range busy {
		if expanded.Overlaps(b) {
			return true
		}
	}
	return false
}

// BusyIntervals собирает интервалы активных бронирований.
// excludeID исключает собственное бронирование при переносе.
func BusyIntervals(bookings []*domain.Booking, excludeID *int64) []Interval {
	busy := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		busy = append(busy, Interval{Start: b.StartAt, End: b.EndAt})
	}
	return busy
}
