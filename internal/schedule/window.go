package schedule

import (
	"time"

	"github.com/slotmind/booking-engine/pkg/types"
)

// MinuteWindow полуинтервал [Start, End) в минутах с начала суток
type MinuteWindow struct {
	Start int
	End   int
}

// Overlaps проверяет пересечение полуинтервалов.
// Граничные случаи (конец одного равен началу другого) пересечением не считаются.
func (w MinuteWindow) Overlaps(o MinuteWindow) bool {
	return w.Start < o.End && o.Start < w.End
}

// Contains проверяет, что o целиком лежит внутри w
func (w MinuteWindow) Contains(o MinuteWindow) bool {
	return w.Start <= o.Start && o.End <= w.End
}

// IsValid проверяет, что окно не пустое и лежит в пределах суток
func (w MinuteWindow) IsValid() bool {
	return 0 <= w.Start && w.Start < w.End && w.End <= types.MinutesPerDay
}

// Interval полуинтервал [Start, End) абсолютного времени
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет пересечение абсолютных полуинтервалов
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// DayStart возвращает полночь UTC-суток, содержащих t
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// MinuteWindowOf переводит абсолютный интервал в окно минут внутри суток date.
// Возвращает false, если интервал не лежит целиком внутри этих суток
// (бронирования через полночь движком не поддерживаются).
func MinuteWindowOf(start, end time.Time, date time.Time) (MinuteWindow, bool) {
	day := DayStart(date)
	nextDay := day.AddDate(0, 0, 1)

	if start.Before(day) || end.After(nextDay) || !end.After(start) {
		return MinuteWindow{}, false
	}

	return MinuteWindow{
		Start: int(start.Sub(day).Minutes()),
		End:   int(end.Sub(day).Minutes()),
	}, true
}

// InstantAt возвращает абсолютное время для минуты minute внутри суток date
func InstantAt(date time.Time, minute int) time.Time {
	return DayStart(date).Add(time.Duration(minute) * time.Minute)
}
