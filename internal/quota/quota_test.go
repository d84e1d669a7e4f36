package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/pkg/ptr"
)

// fakeCounter возвращает заранее заданные счётчики по ширине окна
type fakeCounter struct {
	monthly int
	daily   int
	weekly  int
	err     error

	calls []time.Duration
}

func (f *fakeCounter) CountActiveInRange(_ context.Context, _ int64, from, to time.Time, _ *int64) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	width := to.Sub(from)
	f.calls = append(f.calls, width)
	switch {
	case width == 24*time.Hour:
		return f.daily, nil
	case width == 7*24*time.Hour:
		return f.weekly, nil
	default:
		return f.monthly, nil
	}
}

func freeTenant() *domain.Tenant {
	return &domain.Tenant{ID: 1, Plan: domain.PlanFree}
}

func TestCheck_FreePlanUnderMonthlyCap(t *testing.T) {
	enforcer := NewEnforcer(&fakeCounter{monthly: 49})

	err := enforcer.Check(context.Background(), freeTenant(), time.Now().UTC(), nil)

	assert.NoError(t, err)
}

func TestCheck_FreePlanAtMonthlyCap(t *testing.T) {
	enforcer := NewEnforcer(&fakeCounter{monthly: 50})

	err := enforcer.Check(context.Background(), freeTenant(), time.Now().UTC(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, ScopeMonthly, limitErr.Scope)
	assert.Equal(t, domain.FreePlanMonthlyBookingCap, limitErr.Limit)
	assert.Equal(t, 50, limitErr.Count)
}

func TestCheck_PaidPlanSkipsMonthlyCap(t *testing.T) {
	counter := &fakeCounter{monthly: 500}
	enforcer := NewEnforcer(counter)
	tenant := &domain.Tenant{ID: 2, Plan: domain.PlanPro}

	err := enforcer.Check(context.Background(), tenant, time.Now().UTC(), nil)

	assert.NoError(t, err)
	assert.Empty(t, counter.calls)
}

func TestCheck_DailyLimit(t *testing.T) {
	enforcer := NewEnforcer(&fakeCounter{daily: 3})
	tenant := &domain.Tenant{
		ID:                3,
		Plan:              domain.PlanStarter,
		MaxBookingsPerDay: ptr.Ptr(3),
	}

	err := enforcer.Check(context.Background(), tenant, time.Now().UTC(), nil)

	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, ScopeDaily, limitErr.Scope)
	assert.Equal(t, 3, limitErr.Limit)
}

func TestCheck_WeeklyLimit(t *testing.T) {
	enforcer := NewEnforcer(&fakeCounter{daily: 1, weekly: 10})
	tenant := &domain.Tenant{
		ID:                 4,
		Plan:               domain.PlanStarter,
		MaxBookingsPerDay:  ptr.Ptr(5),
		MaxBookingsPerWeek: ptr.Ptr(10),
	}

	err := enforcer.Check(context.Background(), tenant, time.Now().UTC(), nil)

	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, ScopeWeekly, limitErr.Scope)
}

func TestCheck_MonthlyCheckedBeforeDaily(t *testing.T) {
	// Оба лимита превышены: возвращается месячный
	tenant := freeTenant()
	tenant.MaxBookingsPerDay = ptr.Ptr(1)
	enforcer := NewEnforcer(&fakeCounter{monthly: 50, daily: 5})

	err := enforcer.Check(context.Background(), tenant, time.Now().UTC(), nil)

	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, ScopeMonthly, limitErr.Scope)
}

func TestCheck_CounterError(t *testing.T) {
	storageErr := errors.New("db down")
	enforcer := NewEnforcer(&fakeCounter{err: storageErr})

	err := enforcer.Check(context.Background(), freeTenant(), time.Now().UTC(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
}

func TestCanAccept(t *testing.T) {
	t.Run("под лимитом", func(t *testing.T) {
		enforcer := NewEnforcer(&fakeCounter{monthly: 10})

		ok, err := enforcer.CanAccept(context.Background(), freeTenant(), time.Now().UTC())

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("лимит достигнут", func(t *testing.T) {
		enforcer := NewEnforcer(&fakeCounter{monthly: 50})

		ok, err := enforcer.CanAccept(context.Background(), freeTenant(), time.Now().UTC())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		enforcer := NewEnforcer(&fakeCounter{err: errors.New("db down")})

		ok, err := enforcer.CanAccept(context.Background(), freeTenant(), time.Now().UTC())

		require.Error(t, err)
		assert.False(t, ok)
	})
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

	from, to := DayWindow(at)

	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), to)
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		from time.Time
	}{
		{
			name: "среда относится к неделе с понедельника",
			at:   time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
			from: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "понедельник начинает собственную неделю",
			at:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			from: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "воскресенье закрывает предыдущую неделю",
			at:   time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC),
			from: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to := WeekWindow(tc.at)

			assert.Equal(t, tc.from, from)
			assert.Equal(t, tc.from.AddDate(0, 0, 7), to)
		})
	}
}

func TestMonthWindow(t *testing.T) {
	at := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)

	from, to := MonthWindow(at)

	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), to)
}
