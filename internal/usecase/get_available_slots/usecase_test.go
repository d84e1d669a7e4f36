package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/internal/integrations/directoryservice"
	"github.com/slotmind/booking-engine/pkg/types"
)

type fakeBookingRepo struct{ bookings []*domain.Booking }

func (f *fakeBookingRepo) FindActiveOverlapping(_ context.Context, _, staffID int64, from, to time.Time, _ *int64) ([]*domain.Booking, error) {
	var found []*domain.Booking
	for _, b := range f.bookings {
		if b.StaffID == staffID && b.IsActive() && b.StartAt.Before(to) && from.Before(b.EndAt) {
			found = append(found, b)
		}
	}
	return found, nil
}

type fakeTenantRepo struct{ tenant *domain.Tenant }

func (f *fakeTenantRepo) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	return f.tenant, nil
}

type fakeRuleRepo struct{ rules []*domain.AvailabilityRule }

func (f *fakeRuleRepo) GetActiveForWeekday(_ context.Context, _, _ int64, _ int) ([]*domain.AvailabilityRule, error) {
	return f.rules, nil
}

type fakeExceptionRepo struct{ exceptions []*domain.AvailabilityException }

func (f *fakeExceptionRepo) GetBlockingForDate(_ context.Context, _, _ int64, _ time.Time) ([]*domain.AvailabilityException, error) {
	return f.exceptions, nil
}

type fakeQuota struct{ canAccept bool }

func (f *fakeQuota) CanAccept(_ context.Context, _ *domain.Tenant, _ time.Time) (bool, error) {
	return f.canAccept, nil
}

type fakeDirectory struct {
	staff   *directoryservice.Staff
	service *directoryservice.Service
}

func (f *fakeDirectory) GetStaff(_ context.Context, _, _ int64) (*directoryservice.Staff, error) {
	return f.staff, nil
}

func (f *fakeDirectory) GetService(_ context.Context, _, _ int64) (*directoryservice.Service, error) {
	return f.service, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	repo      *fakeBookingRepo
	quota     *fakeQuota
	rules     *fakeRuleRepo
	exc       *fakeExceptionRepo
	directory *fakeDirectory
}

// newFixture: окно 09:00-10:00, услуга 30 минут, буфер 0, квота свободна
func newFixture() *fixture {
	f := &fixture{
		repo:  &fakeBookingRepo{},
		quota: &fakeQuota{canAccept: true},
		rules: &fakeRuleRepo{rules: []*domain.AvailabilityRule{{
			TenantID:  1,
			Weekday:   1,
			StartTime: types.TimeString("09:00"),
			EndTime:   types.TimeString("10:00"),
			Active:    true,
		}}},
		exc: &fakeExceptionRepo{},
		directory: &fakeDirectory{
			staff:   &directoryservice.Staff{ID: 5, TenantID: 1, Active: true},
			service: &directoryservice.Service{ID: 10, TenantID: 1, DurationMinutes: 30, Active: true},
		},
	}

	tenantRepo := &fakeTenantRepo{tenant: &domain.Tenant{ID: 1, Plan: domain.PlanFree}}

	f.uc = NewUseCase(f.repo, tenantRepo, f.rules, f.exc, f.quota, f.directory, nopLogger{})
	// Запрос накануне: все слоты в будущем
	f.uc.timeProvider = fixedTime{now: monday.Add(-16 * time.Hour)}

	return f
}

func request() *Request {
	return &Request{TenantID: 1, ServiceID: 10, StaffID: 5, Date: monday}
}

func TestExecute_ReturnsCandidateSlots(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		monday.Add(9 * time.Hour),
		monday.Add(9*time.Hour + 15*time.Minute),
		monday.Add(9*time.Hour + 30*time.Minute),
	}, resp.Slots)
	assert.Equal(t, 30, resp.DurationMinutes)
}

func TestExecute_QuotaReachedEmptiesWholeList(t *testing.T) {
	f := newFixture()
	f.quota.canAccept = false

	resp, err := f.uc.Execute(context.Background(), request())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_OccupiedIntervalExcluded(t *testing.T) {
	f := newFixture()
	f.repo.bookings = []*domain.Booking{{
		ID:       1,
		TenantID: 1,
		StaffID:  5,
		StartAt:  monday.Add(9 * time.Hour),
		EndAt:    monday.Add(9*time.Hour + 30*time.Minute),
		Status:   domain.StatusConfirmed,
	}}

	resp, err := f.uc.Execute(context.Background(), request())

	require.NoError(t, err)
	// 09:00 и пересекающийся 09:15 заняты
	assert.Equal(t, []time.Time{monday.Add(9*time.Hour + 30*time.Minute)}, resp.Slots)
}

func TestExecute_PastSlotsFiltered(t *testing.T) {
	f := newFixture()
	f.uc.timeProvider = fixedTime{now: monday.Add(9*time.Hour + 10*time.Minute)}

	resp, err := f.uc.Execute(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		monday.Add(9*time.Hour + 15*time.Minute),
		monday.Add(9*time.Hour + 30*time.Minute),
	}, resp.Slots)
}

func TestExecute_InactiveStaffOrService(t *testing.T) {
	f := newFixture()
	f.directory.staff.Active = false

	resp, err := f.uc.Execute(context.Background(), request())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	f.directory.staff.Active = true
	f.directory.service.Active = false

	resp, err = f.uc.Execute(context.Background(), request())

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_InvalidRequest(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 0, ServiceID: 10, StaffID: 5, Date: monday})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
