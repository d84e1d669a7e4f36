package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
)

type fakeRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	marked   []int64
	findErr  error

	findStarted chan struct{}
	findRelease chan struct{}
}

func (f *fakeRepo) FindDueReminders(_ context.Context, from, to time.Time) ([]*domain.Booking, error) {
	if f.findStarted != nil {
		f.findStarted <- struct{}{}
		<-f.findRelease
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []*domain.Booking
	for _, b := range f.bookings {
		if b.ReminderSentAt == nil && !b.StartAt.Before(from) && b.StartAt.Before(to) {
			due = append(due, b)
		}
	}
	return due, nil
}

func (f *fakeRepo) MarkReminderSent(_ context.Context, id int64, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	for _, b := range f.bookings {
		if b.ID == id {
			b.ReminderSentAt = &sentAt
		}
	}
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifyservice.BookingReminderEvent
	failID int64
}

func (f *fakeNotifier) NotifyBookingReminder(_ context.Context, event notifyservice.BookingReminderEvent) error {
	if event.BookingID == f.failID {
		return errors.New("notify service down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func booking(id int64, startIn time.Duration) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		TenantID:      1,
		StaffID:       5,
		CustomerName:  "Иван",
		CustomerEmail: "ivan@example.com",
		StartAt:       now.Add(startIn),
		EndAt:         now.Add(startIn + time.Hour),
		Status:        domain.StatusConfirmed,
	}
}

func newDispatcher(repo *fakeRepo, notifier *fakeNotifier) *Dispatcher {
	d := NewDispatcher(Config{Interval: time.Minute, Lead: 24 * time.Hour}, repo, notifier, nopLogger{})
	d.timeProvider = fixedTime{now: now}
	return d
}

func TestRun_SendsDueReminders(t *testing.T) {
	repo := &fakeRepo{bookings: []*domain.Booking{
		booking(1, 2*time.Hour),   // в lead-окне
		booking(2, 48*time.Hour),  // слишком далеко
		booking(3, 23*time.Hour),  // в lead-окне
	}}
	notifier := &fakeNotifier{}
	d := newDispatcher(repo, notifier)

	err := d.Run(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, repo.marked)
	assert.Len(t, notifier.events, 2)
}

func TestRun_AlreadySentSkipped(t *testing.T) {
	sent := booking(1, 2*time.Hour)
	sentAt := now.Add(-time.Hour)
	sent.ReminderSentAt = &sentAt

	repo := &fakeRepo{bookings: []*domain.Booking{sent}}
	notifier := &fakeNotifier{}
	d := newDispatcher(repo, notifier)

	err := d.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, notifier.events)
}

func TestRun_FailureIsolatedPerBooking(t *testing.T) {
	repo := &fakeRepo{bookings: []*domain.Booking{
		booking(1, 2*time.Hour),
		booking(2, 3*time.Hour),
	}}
	notifier := &fakeNotifier{failID: 1}
	d := newDispatcher(repo, notifier)

	err := d.Run(context.Background())

	// Сбой по первому бронированию не мешает второму
	require.Error(t, err)
	assert.Equal(t, []int64{2}, repo.marked)

	// Несработавшее напоминание не помечено и уйдёт следующим циклом
	notifier.failID = 0
	err = d.Run(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 1}, repo.marked)
}

func TestRun_ReentrancyGuard(t *testing.T) {
	repo := &fakeRepo{
		findStarted: make(chan struct{}),
		findRelease: make(chan struct{}),
	}
	notifier := &fakeNotifier{}
	d := newDispatcher(repo, notifier)

	done := make(chan error, 1)
	go func() {
		done <- d.Run(context.Background())
	}()

	// Первый цикл завис в FindDueReminders: повторный вход пропускается
	<-repo.findStarted
	err := d.Run(context.Background())
	assert.NoError(t, err)

	close(repo.findRelease)
	require.NoError(t, <-done)
}

func TestRun_FindError(t *testing.T) {
	repo := &fakeRepo{findErr: errors.New("db down")}
	d := newDispatcher(repo, &fakeNotifier{})

	err := d.Run(context.Background())

	assert.Error(t, err)
}
