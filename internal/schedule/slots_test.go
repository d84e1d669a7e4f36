package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/pkg/ptr"
)

func at(hour, minute int) time.Time {
	return monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Сквозной сценарий: услуга 30 минут, правило Пн 09:00-10:00, буфер 0 —
// ровно три слота: 09:00, 09:15, 09:30.
func TestGenerateSlots_EndToEnd(t *testing.T) {
	day, err := Resolve(monday, 7, []*domain.AvailabilityRule{rule(1, "09:00", "10:00", nil)}, nil)
	require.NoError(t, err)

	slots := GenerateSlots(day, 30, 0, nil)

	require.Len(t, slots, 3)
	assert.Equal(t, at(9, 0), slots[0])
	assert.Equal(t, at(9, 15), slots[1])
	assert.Equal(t, at(9, 30), slots[2])
}

// Буфер 15 минут вокруг бронирования 09:30-10:00 исключает кандидата
// 09:00-09:30; кандидат 10:15-10:45 проходит.
func TestGenerateSlots_BufferExclusion(t *testing.T) {
	day, err := Resolve(monday, 7, []*domain.AvailabilityRule{rule(1, "09:00", "12:00", nil)}, nil)
	require.NoError(t, err)

	busy := []Interval{{Start: at(9, 30), End: at(10, 0)}}
	slots := GenerateSlots(day, 30, 15, busy)

	starts := make(map[time.Time]bool, len(slots))
	for _, s := range slots {
		starts[s] = true
	}

	assert.False(t, starts[at(9, 0)], "09:00 задет буфером")
	assert.False(t, starts[at(9, 15)])
	assert.False(t, starts[at(9, 30)])
	assert.False(t, starts[at(9, 45)])
	assert.False(t, starts[at(10, 0)], "10:00 задет буфером после бронирования")
	assert.True(t, starts[at(10, 15)], "10:15 первый допустимый после буфера")
	assert.True(t, starts[at(10, 30)])
}

// Исключение на весь день обнуляет выдачу даже при активных правилах.
func TestGenerateSlots_FullDayExceptionZeroesSlots(t *testing.T) {
	exceptions := []*domain.AvailabilityException{
		blockingException(monday, nil, nil, nil),
	}
	day, err := Resolve(monday, 7, []*domain.AvailabilityRule{rule(1, "09:00", "18:00", nil)}, exceptions)
	require.NoError(t, err)

	slots := GenerateSlots(day, 30, 0, nil)
	assert.Empty(t, slots)
}

// Частичное исключение выбивает только задетых кандидатов.
func TestGenerateSlots_PartialException(t *testing.T) {
	exceptions := []*domain.AvailabilityException{
		blockingException(monday, ptr.Ptr("09:30"), ptr.Ptr("10:00"), nil),
	}
	day, err := Resolve(monday, 7, []*domain.AvailabilityRule{rule(1, "09:00", "10:30", nil)}, exceptions)
	require.NoError(t, err)

	slots := GenerateSlots(day, 30, 0, nil)

	require.Len(t, slots, 2)
	assert.Equal(t, at(9, 0), slots[0])  // 09:00-09:30 граничит с блоком
	assert.Equal(t, at(10, 0), slots[1]) // 10:00-10:30 начинается на границе блока
}

// Пересекающиеся общетенантное и персональное правила не плодят дубликатов.
func TestGenerateSlots_DeduplicatesAcrossRules(t *testing.T) {
	rules := []*domain.AvailabilityRule{
		rule(1, "09:00", "10:00", nil),
		rule(1, "09:00", "10:00", ptr.Ptr[int64](7)),
	}
	day, err := Resolve(monday, 7, rules, nil)
	require.NoError(t, err)

	slots := GenerateSlots(day, 30, 0, nil)

	require.Len(t, slots, 3)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Before(slots[i]), "слоты отсортированы и уникальны")
	}
}

// Шаг 15 минут не зависит от длительности: 45-минутная услуга даёт
// кандидатов с пересекающимися интервалами — это ожидаемое поведение.
func TestGenerateSlots_StrideIndependentOfDuration(t *testing.T) {
	day, err := Resolve(monday, 7, []*domain.AvailabilityRule{rule(1, "09:00", "10:30", nil)}, nil)
	require.NoError(t, err)

	slots := GenerateSlots(day, 45, 0, nil)

	require.Len(t, slots, 4)
	assert.Equal(t, at(9, 0), slots[0])
	assert.Equal(t, at(9, 15), slots[1])
	assert.Equal(t, at(9, 30), slots[2])
	assert.Equal(t, at(9, 45), slots[3])
}

func TestCollides(t *testing.T) {
	busy := []Interval{{Start: at(9, 30), End: at(10, 0)}}

	// Без буфера граничащие интервалы не конфликтуют
	assert.False(t, Collides(Interval{Start: at(9, 0), End: at(9, 30)}, 0, busy))
	assert.False(t, Collides(Interval{Start: at(10, 0), End: at(10, 30)}, 0, busy))
	assert.True(t, Collides(Interval{Start: at(9, 45), End: at(10, 15)}, 0, busy))

	// С буфером 15 минут граничащие интервалы конфликтуют
	assert.True(t, Collides(Interval{Start: at(9, 0), End: at(9, 30)}, 15, busy))
	assert.True(t, Collides(Interval{Start: at(10, 0), End: at(10, 30)}, 15, busy))
	assert.False(t, Collides(Interval{Start: at(10, 15), End: at(10, 45)}, 15, busy))
}

func TestBusyIntervals_SkipsInactiveAndExcluded(t *testing.T) {
	bookings := []*domain.Booking{
		{ID: 1, Status: domain.StatusConfirmed, StartAt: at(9, 0), EndAt: at(9, 30)},
		{ID: 2, Status: domain.StatusCancelled, StartAt: at(10, 0), EndAt: at(10, 30)},
		{ID: 3, Status: domain.StatusRescheduled, StartAt: at(11, 0), EndAt: at(11, 30)},
	}

	busy := BusyIntervals(bookings, nil)
	assert.Len(t, busy, 2)

	// Собственное бронирование исключается при переносе
	busy = BusyIntervals(bookings, ptr.Ptr[int64](1))
	require.Len(t, busy, 1)
	assert.Equal(t, at(11, 0), busy[0].Start)
}

func TestMinuteWindowOf(t *testing.T) {
	w, ok := MinuteWindowOf(at(9, 0), at(9, 30), monday)
	require.True(t, ok)
	assert.Equal(t, MinuteWindow{Start: 540, End: 570}, w)

	// Интервал через полночь не поддерживается
	_, ok = MinuteWindowOf(at(23, 30), at(24, 30), monday)
	assert.False(t, ok)

	// Пустой интервал
	_, ok = MinuteWindowOf(at(9, 0), at(9, 0), monday)
	assert.False(t, ok)
}
