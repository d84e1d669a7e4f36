package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotmind/booking-engine/internal/domain"
	bookingRepo "github.com/slotmind/booking-engine/internal/infra/storage/booking"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, tenantID, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, tenantID, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok || b.TenantID != tenantID {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	return nil
}

type fakeTenantRepo struct{ tenant *domain.Tenant }

func (f *fakeTenantRepo) GetByID(_ context.Context, _ int64) (*domain.Tenant, error) {
	return f.tenant, nil
}

type promotion struct {
	serviceID int64
	staffID   int64
	from, to  time.Time
}

type fakeWaitlist struct {
	promoted *domain.WaitlistEntry
	calls    []promotion
}

func (f *fakeWaitlist) PromoteOnCancellation(_ context.Context, _, serviceID, staffID int64, from, to time.Time) (*domain.WaitlistEntry, error) {
	f.calls = append(f.calls, promotion{serviceID: serviceID, staffID: staffID, from: from, to: to})
	return f.promoted, nil
}

type fakeAudit struct{ actions []string }

func (f *fakeAudit) Record(_ context.Context, _ int64, action string, _ int64, _ map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	startAt = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	endAt   = time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc       *UseCase
	repo     *fakeBookingRepo
	waitlist *fakeWaitlist
	audit    *fakeAudit
}

// newFixture собирает usecase с бронированием id=1 и текущим временем
// за hoursBefore часов до его начала
func newFixture(status domain.BookingStatus, noticeHours, hoursBefore int) *fixture {
	f := &fixture{
		repo: &fakeBookingRepo{bookings: map[int64]*domain.Booking{
			1: {
				ID:        1,
				TenantID:  1,
				ServiceID: 10,
				StaffID:   5,
				StartAt:   startAt,
				EndAt:     endAt,
				Status:    status,
			},
		}},
		waitlist: &fakeWaitlist{},
		audit:    &fakeAudit{},
	}

	tenantRepo := &fakeTenantRepo{tenant: &domain.Tenant{
		ID:                      1,
		CancellationNoticeHours: noticeHours,
	}}

	f.uc = NewUseCase(f.repo, tenantRepo, f.waitlist, f.audit, nopLogger{})
	f.uc.timeProvider = fixedTime{now: startAt.Add(-time.Duration(hoursBefore) * time.Hour)}

	return f
}

func TestExecute_CancelsConfirmedBooking(t *testing.T) {
	f := newFixture(domain.StatusConfirmed, 24, 48)

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1, Reason: "клиент заболел"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	require.NotNil(t, resp.Booking.CancellationReason)
	assert.Equal(t, "клиент заболел", *resp.Booking.CancellationReason)
	assert.Equal(t, []string{"booking.cancelled"}, f.audit.actions)
}

func TestExecute_IdempotentDoubleCancel(t *testing.T) {
	f := newFixture(domain.StatusConfirmed, 24, 48)

	first, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1})
	require.NoError(t, err)

	second, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1})
	require.NoError(t, err)

	assert.Equal(t, first.Booking.Status, second.Booking.Status)
	assert.Equal(t, first.Booking.ID, second.Booking.ID)
	// Повторная отмена без побочных эффектов
	assert.Len(t, f.audit.actions, 1)
	assert.Len(t, f.waitlist.calls, 1)
}

func TestExecute_TerminalStatusRejected(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(status, 24, 48)

			_, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1})

			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestExecute_NoticeWindowViolation(t *testing.T) {
	// До начала 2 часа, требуется 24
	f := newFixture(domain.StatusConfirmed, 24, 2)

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1})

	assert.ErrorIs(t, err, ErrNoticeWindowViolation)
	assert.Empty(t, f.waitlist.calls)
}

func TestExecute_NoticeWindowBoundaryAllowed(t *testing.T) {
	// Ровно 24 часа до начала: граница допустима
	f := newFixture(domain.StatusConfirmed, 24, 24)

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1})

	assert.NoError(t, err)
}

func TestExecute_PromotesWaitlistOnFreedInterval(t *testing.T) {
	f := newFixture(domain.StatusConfirmed, 24, 48)
	f.waitlist.promoted = &domain.WaitlistEntry{ID: 7, Status: domain.WaitlistNotified}

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1})

	require.NoError(t, err)
	require.NotNil(t, resp.PromotedEntry)
	assert.Equal(t, int64(7), resp.PromotedEntry.ID)

	require.Len(t, f.waitlist.calls, 1)
	call := f.waitlist.calls[0]
	assert.Equal(t, int64(10), call.serviceID)
	assert.Equal(t, int64(5), call.staffID)
	assert.Equal(t, startAt, call.from)
	assert.Equal(t, endAt, call.to)
}

func TestExecute_RescheduledBookingCancellable(t *testing.T) {
	f := newFixture(domain.StatusRescheduled, 24, 48)

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
}

func TestExecute_TenantIsolation(t *testing.T) {
	f := newFixture(domain.StatusConfirmed, 24, 48)

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 2, BookingID: 1})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ReasonTooLong(t *testing.T) {
	f := newFixture(domain.StatusConfirmed, 24, 48)

	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 1, Reason: string(long)})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
