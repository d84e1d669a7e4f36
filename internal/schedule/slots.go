package schedule

import (
	"sort"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
)

// GenerateSlots перечисляет кандидатов на начало бронирования внутри
// разрешённых окон дня с фиксированным шагом domain.SlotStepMinutes.
//
// Кандидат выживает, если:
//   - услуга длительностью durationMinutes помещается в окно правила;
//   - интервал кандидата не задет блокирующим исключением;
//   - расширенный на буфер интервал не пересекается с активными бронированиями.
//
// Кандидаты из пересекающихся правил (общетенантное + персональное)
// дедуплицируются по абсолютному времени начала. Результат отсортирован
// по возрастанию.
//
// Шаг генерации не зависит от длительности услуги: соседние валидные
// слоты длинной услуги могут накрывать пересекающиеся интервалы —
// это кандидаты на старт, а не разбиение дня.
func GenerateSlots(day *DaySchedule, durationMinutes, bufferMinutes int, busy []Interval) []time.Time {
	if durationMinutes <= 0 {
		return nil
	}

	seen := make(map[int64]struct{})
	slots := make([]time.Time, 0)

	for _, window := range day.Windows {
		for cursor := window.Start; cursor+durationMinutes <= window.End; cursor += domain.SlotStepMinutes {
			candidate := MinuteWindow{Start: cursor, End: cursor + durationMinutes}

			if day.IsBlocked(candidate) {
				continue
			}

			start := InstantAt(day.Date, candidate.Start)
			end := InstantAt(day.Date, candidate.End)

			if Collides(Interval{Start: start, End: end}, bufferMinutes, busy) {
				continue
			}

			key := start.Unix()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			slots = append(slots, start)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}
