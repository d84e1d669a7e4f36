package create_booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/internal/integrations/directoryservice"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
	"github.com/slotmind/booking-engine/pkg/ptr"
	"github.com/slotmind/booking-engine/pkg/txmanager"
	"github.com/slotmind/booking-engine/pkg/types"
)

// fakeBookingRepo хранит бронирования в памяти
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	booking.ID = f.nextID
	f.bookings = append(f.bookings, booking)
	return booking, nil
}

func (f *fakeBookingRepo) FindActiveOverlapping(_ context.Context, tenantID, staffID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []*domain.Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID || b.StaffID != staffID || !b.IsActive() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.StartAt.Before(to) && from.Before(b.EndAt) {
			found = append(found, b)
		}
	}
	return found, nil
}

type fakeTenantRepo struct{ tenant *domain.Tenant }

func (f *fakeTenantRepo) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	if f.tenant == nil || f.tenant.ID != id {
		return nil, fmt.Errorf("tenant not found")
	}
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

type fakeQuota struct{ err error }

func (f *fakeQuota) Check(_ context.Context, _ *domain.Tenant, _ time.Time, _ *int64) error {
	return f.err
}

type fakeWaitlist struct {
	joined []*domain.WaitlistEntry
	nextID int64
}

func (f *fakeWaitlist) Join(_ context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, bool, error) {
	f.nextID++
	entry.ID = f.nextID
	entry.Status = domain.WaitlistWaiting
	f.joined = append(f.joined, entry)
	return entry, true, nil
}

type fakeDirectory struct {
	staff   *directoryservice.Staff
	service *directoryservice.Service
}

func (f *fakeDirectory) GetStaff(_ context.Context, _, staffID int64) (*directoryservice.Staff, error) {
	if f.staff == nil || f.staff.ID != staffID {
		return nil, directoryservice.ErrStaffNotFound
	}
	return f.staff, nil
}

func (f *fakeDirectory) GetService(_ context.Context, _, serviceID int64) (*directoryservice.Service, error) {
	if f.service == nil || f.service.ID != serviceID {
		return nil, directoryservice.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeNotify struct {
	mu     sync.Mutex
	events []notifyservice.BookingCreatedEvent
}

func (f *fakeNotify) NotifyBookingCreated(_ context.Context, event notifyservice.BookingCreatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAudit) Record(_ context.Context, _ int64, action string, _ int64, _ map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

// serialTxManager сериализует транзакции мьютексом: проверка занятости и
// вставка выполняются атомарно, как в serializable-транзакции Postgres
type serialTxManager struct{ mu sync.Mutex }

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// conflictTxManager имитирует конфликт сериализации после исчерпания ретраев
type conflictTxManager struct{}

func (conflictTxManager) DoSerializable(context.Context, func(ctx context.Context) error) error {
	return fmt.Errorf("%w: retries exhausted", txmanager.ErrSerialization)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	waitlist    *fakeWaitlist
	notify      *fakeNotify
	audit       *fakeAudit
	quota       *fakeQuota
}

// monday 2026-03-02, рабочее окно 09:00-18:00
var (
	monday  = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	testNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
)

func newFixture(bufferMinutes int) *fixture {
	f := &fixture{
		bookingRepo: &fakeBookingRepo{},
		waitlist:    &fakeWaitlist{},
		notify:      &fakeNotify{},
		audit:       &fakeAudit{},
		quota:       &fakeQuota{},
	}

	tenantRepo := &fakeTenantRepo{tenant: &domain.Tenant{
		ID:            1,
		Plan:          domain.PlanStarter,
		BufferMinutes: bufferMinutes,
	}}
	ruleRepo := &fakeRuleRepo{rules: []*domain.AvailabilityRule{{
		TenantID:  1,
		Weekday:   1,
		StartTime: types.TimeString("09:00"),
		EndTime:   types.TimeString("18:00"),
		Active:    true,
	}}}
	directory := &fakeDirectory{
		staff:   &directoryservice.Staff{ID: 5, TenantID: 1, Name: "Мастер", Active: true},
		service: &directoryservice.Service{ID: 10, TenantID: 1, Name: "Стрижка", DurationMinutes: 60, Active: true},
	}

	f.uc = NewUseCase(
		f.bookingRepo,
		tenantRepo,
		ruleRepo,
		&fakeExceptionRepo{},
		f.quota,
		f.waitlist,
		directory,
		f.notify,
		f.audit,
		&serialTxManager{},
		nopLogger{},
	)
	f.uc.timeProvider = fixedTime{now: testNow}

	return f
}

func requestAt(hour int) *Request {
	return &Request{
		TenantID:      1,
		ServiceID:     10,
		StaffID:       5,
		StartAt:       monday.Add(time.Duration(hour) * time.Hour),
		CustomerName:  "Иван",
		CustomerEmail: "ivan@example.com",
		ActorID:       99,
	}
}

func TestExecute_CreatesConfirmedBooking(t *testing.T) {
	f := newFixture(0)

	resp, err := f.uc.Execute(context.Background(), requestAt(10))

	require.NoError(t, err)
	require.NotNil(t, resp.Booking)
	assert.Nil(t, resp.WaitlistEntry)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, monday.Add(10*time.Hour), resp.Booking.StartAt)
	assert.Equal(t, monday.Add(11*time.Hour), resp.Booking.EndAt)

	assert.Equal(t, []string{"booking.created"}, f.audit.actions)
	require.Len(t, f.notify.events, 1)
	assert.Equal(t, resp.Booking.ID, f.notify.events[0].BookingID)
}

func TestExecute_OccupiedSlot(t *testing.T) {
	f := newFixture(0)

	_, err := f.uc.Execute(context.Background(), requestAt(10))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), requestAt(10))

	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestExecute_BufferExpandsCollisionWindow(t *testing.T) {
	f := newFixture(15)

	_, err := f.uc.Execute(context.Background(), requestAt(10))
	require.NoError(t, err)

	// 11:00 примыкает к концу существующей брони: с буфером 15 минут занято
	_, err = f.uc.Execute(context.Background(), requestAt(11))
	assert.ErrorIs(t, err, ErrSlotOccupied)

	// 11:15 выдерживает буфер
	req := requestAt(11)
	req.StartAt = monday.Add(11*time.Hour + 15*time.Minute)
	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.NotNil(t, resp.Booking)
}

func TestExecute_AutoWaitlistOnOccupied(t *testing.T) {
	f := newFixture(0)

	_, err := f.uc.Execute(context.Background(), requestAt(10))
	require.NoError(t, err)

	req := requestAt(10)
	req.AutoWaitlist = true
	req.CustomerEmail = "second@example.com"

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Nil(t, resp.Booking)
	require.NotNil(t, resp.WaitlistEntry)
	assert.Equal(t, domain.WaitlistWaiting, resp.WaitlistEntry.Status)
	assert.Equal(t, monday.Add(10*time.Hour), resp.WaitlistEntry.PreferredStartAt)
	assert.Contains(t, f.audit.actions, "waitlist.joined")
}

func TestExecute_SerializationConflictBecomesOccupied(t *testing.T) {
	f := newFixture(0)
	f.uc.txManager = conflictTxManager{}

	req := requestAt(10)
	req.AutoWaitlist = true

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, resp.WaitlistEntry)
	assert.Nil(t, resp.Booking)
}

func TestExecute_OutsideAvailability(t *testing.T) {
	f := newFixture(0)

	// 18:00 конец рабочего окна: услуга на час не помещается
	_, err := f.uc.Execute(context.Background(), requestAt(18))
	assert.ErrorIs(t, err, ErrOutsideAvailability)

	// 08:00 до начала окна
	_, err = f.uc.Execute(context.Background(), requestAt(8))
	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestExecute_QuotaErrorPassedThrough(t *testing.T) {
	f := newFixture(0)
	quotaErr := fmt.Errorf("quota: limit exceeded")
	f.quota.err = quotaErr

	_, err := f.uc.Execute(context.Background(), requestAt(10))

	assert.ErrorIs(t, err, quotaErr)
	assert.Empty(t, f.bookingRepo.bookings)
}

func TestExecute_InactiveServiceAndStaff(t *testing.T) {
	f := newFixture(0)
	directory := f.uc.directory.(*fakeDirectory)

	directory.service.Active = false
	_, err := f.uc.Execute(context.Background(), requestAt(10))
	assert.ErrorIs(t, err, ErrServiceInactive)

	directory.service.Active = true
	directory.staff.Active = false
	_, err = f.uc.Execute(context.Background(), requestAt(10))
	assert.ErrorIs(t, err, ErrStaffInactive)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(0)

	req := requestAt(10)
	req.CustomerName = ""
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = requestAt(10)
	req.StartAt = testNow.Add(-time.Hour)
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = requestAt(10)
	req.CustomerEmail = "not-an-email"
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_TenantIsolation(t *testing.T) {
	f := newFixture(0)

	req := requestAt(10)
	req.TenantID = 2
	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExecute_ConcurrentDoubleCreate(t *testing.T) {
	f := newFixture(0)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Execute(context.Background(), requestAt(10))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, occupied int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, ErrSlotOccupied):
			occupied++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, occupied)
	assert.Len(t, f.bookingRepo.bookings, 1)
}

func TestExecute_ExcludeIDSkipsOwnBooking(t *testing.T) {
	f := newFixture(0)

	resp, err := f.uc.Execute(context.Background(), requestAt(10))
	require.NoError(t, err)

	// Перенос исключает собственную занятость из проверки
	overlapping, err := f.bookingRepo.FindActiveOverlapping(
		context.Background(), 1, 5,
		resp.Booking.StartAt, resp.Booking.EndAt,
		ptr.Ptr(resp.Booking.ID),
	)
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}
