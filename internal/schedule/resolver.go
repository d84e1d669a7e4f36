package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/pkg/types"
)

var (
	// ErrMalformedRule возвращается, когда правило доступности содержит
	// некорректные границы времени (нарушен инвариант записи)
	ErrMalformedRule = errors.New("schedule: malformed availability rule")

	// ErrMalformedException возвращается при некорректных границах исключения
	ErrMalformedException = errors.New("schedule: malformed availability exception")
)

// DaySchedule разрешённая доступность сотрудника на конкретную дату:
// окна из правил плюс блокирующие интервалы из исключений.
// Блокировки не "вырезаются" из окон заранее — проверка применяется
// к каждому кандидату отдельно, как в исходной системе.
type DaySchedule struct {
	Date    time.Time // полночь UTC
	Windows []MinuteWindow
	Blocked []MinuteWindow
}

// Resolve собирает доступность сотрудника на дату из правил и исключений.
// Правило участвует, если оно активно, совпадает по дню недели и относится
// к сотруднику либо ко всему тенанту. Исключение блокирует, если оно
// датировано этим днём, относится к сотруднику либо ко всему тенанту и
// помечено isUnavailable; исключение без границ блокирует весь день.
func Resolve(
	date time.Time,
	staffID int64,
	rules []*domain.AvailabilityRule,
	exceptions []*domain.AvailabilityException,
) (*DaySchedule, error) {
	day := &DaySchedule{Date: DayStart(date)}

	for _, rule := range rules {
		if !rule.Active || !rule.MatchesDate(day.Date) || !rule.AppliesTo(staffID) {
			continue
		}

		window, err := ruleWindow(rule)
		if err != nil {
			return nil, err
		}
		day.Windows = append(day.Windows, window)
	}

	sort.Slice(day.Windows, func(i, j int) bool {
		if day.Windows[i].Start != day.Windows[j].Start {
			return day.Windows[i].Start < day.Windows[j].Start
		}
		return day.Windows[i].End < day.Windows[j].End
	})

	for _, exc := range exceptions {
		if !exc.IsUnavailable || !exc.MatchesDate(day.Date) || !exc.AppliesTo(staffID) {
			continue
		}

		block, err := exceptionWindow(exc)
		if err != nil {
			return nil, err
		}
		day.Blocked = append(day.Blocked, block)
	}

	return day, nil
}

// IsBlocked проверяет, пересекается ли окно с каким-либо блокирующим интервалом
func (s *DaySchedule) IsBlocked(w MinuteWindow) bool {
	for _, b := range s.Blocked {
		if b.Overlaps(w) {
			return true
		}
	}
	return false
}

// Allows проверяет, что окно целиком лежит хотя бы в одном разрешённом
// окне и не задето блокировками
func (s *DaySchedule) Allows(w MinuteWindow) bool {
	if s.IsBlocked(w) {
		return false
	}
	for _, rw := range s.Windows {
		if rw.Contains(w) {
			return true
		}
	}
	return false
}

func ruleWindow(rule *domain.AvailabilityRule) (MinuteWindow, error) {
	start, err := rule.StartTime.Minutes()
	if err != nil {
		return MinuteWindow{}, fmt.Errorf("%w: rule id=%d: %v", ErrMalformedRule, rule.ID, err)
	}
	end, err := rule.EndTime.Minutes()
	if err != nil {
		return MinuteWindow{}, fmt.Errorf("%w: rule id=%d: %v", ErrMalformedRule, rule.ID, err)
	}
	w := MinuteWindow{Start: start, End: end}
	if !w.IsValid() {
		return MinuteWindow{}, fmt.Errorf("%w: rule id=%d: start must be before end", ErrMalformedRule, rule.ID)
	}
	return w, nil
}

func exceptionWindow(exc *domain.AvailabilityException) (MinuteWindow, error) {
	// Исключение без границ блокирует весь день
	if exc.IsFullDay() {
		return MinuteWindow{Start: 0, End: types.MinutesPerDay}, nil
	}

	start, err := exc.StartTime.Minutes()
	if err != nil {
		return MinuteWindow{}, fmt.Errorf("%w: exception id=%d: %v", ErrMalformedException, exc.ID, err)
	}
	end, err := exc.EndTime.Minutes()
	if err != nil {
		return MinuteWindow{}, fmt.Errorf("%w: exception id=%d: %v", ErrMalformedException, exc.ID, err)
	}
	w := MinuteWindow{Start: start, End: end}
	if !w.IsValid() {
		return MinuteWindow{}, fmt.Errorf("%w: exception id=%d: start must be before end", ErrMalformedException, exc.ID)
	}
	return w, nil
}
