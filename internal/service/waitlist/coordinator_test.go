package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotmind/booking-engine/internal/domain"
	waitlistRepo "github.com/slotmind/booking-engine/internal/infra/storage/waitlist"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
)

type fakeRepo struct {
	entries    []*domain.WaitlistEntry
	created    []*domain.WaitlistEntry
	notifiedID int64
	markErr    error
	nextID     int64
}

func (f *fakeRepo) Create(_ context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, entry)
	f.created = append(f.created, entry)
	return entry, nil
}

func (f *fakeRepo) FindWaiting(_ context.Context, tenantID, serviceID, staffID int64, email string, at time.Time) (*domain.WaitlistEntry, error) {
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.ServiceID == serviceID && e.StaffID == staffID &&
			e.CustomerEmail == email && e.PreferredStartAt.Equal(at) && e.IsWaiting() {
			return e, nil
		}
	}
	return nil, waitlistRepo.ErrEntryNotFound
}

func (f *fakeRepo) FindEarliestWaitingInRange(_ context.Context, tenantID, serviceID, staffID int64, from, to time.Time) (*domain.WaitlistEntry, error) {
	var earliest *domain.WaitlistEntry
	for _, e := range f.entries {
		if e.TenantID != tenantID || e.ServiceID != serviceID || e.StaffID != staffID || !e.IsWaiting() {
			continue
		}
		if e.PreferredStartAt.Before(from) || !e.PreferredStartAt.Before(to) {
			continue
		}
		if earliest == nil || e.CreatedAt.Before(earliest.CreatedAt) {
			earliest = e
		}
	}
	if earliest == nil {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	return earliest, nil
}

func (f *fakeRepo) MarkNotified(_ context.Context, id int64, notifiedAt time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	for _, e := range f.entries {
		if e.ID == id && e.IsWaiting() {
			e.Status = domain.WaitlistNotified
			e.NotifiedAt = &notifiedAt
			f.notifiedID = id
			return nil
		}
	}
	return waitlistRepo.ErrEntryNotFound
}

type fakeNotifier struct {
	events []notifyservice.SlotAvailableEvent
	err    error
}

func (f *fakeNotifier) NotifyWaitlistSlotAvailable(_ context.Context, event notifyservice.SlotAvailableEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newCoordinator(repo *fakeRepo, notifier *fakeNotifier) *Coordinator {
	return NewCoordinator(repo, notifier, fixedTime{now: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}, nopLogger{})
}

func slotAt(hour int) time.Time {
	return time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)
}

func entryFor(tenantID int64, email string, at time.Time, createdAt time.Time) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		TenantID:         tenantID,
		ServiceID:        10,
		StaffID:          5,
		CustomerName:     "Клиент",
		CustomerEmail:    email,
		PreferredStartAt: at,
		Status:           domain.WaitlistWaiting,
		CreatedAt:        createdAt,
	}
}

func TestJoin_CreatesEntry(t *testing.T) {
	repo := &fakeRepo{}
	coordinator := newCoordinator(repo, &fakeNotifier{})

	entry, created, err := coordinator.Join(context.Background(), entryFor(1, "a@example.com", slotAt(10), time.Time{}))

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, domain.WaitlistWaiting, entry.Status)
}

func TestJoin_IdempotentForSameCustomerAndSlot(t *testing.T) {
	repo := &fakeRepo{}
	coordinator := newCoordinator(repo, &fakeNotifier{})

	first, created, err := coordinator.Join(context.Background(), entryFor(1, "a@example.com", slotAt(10), time.Time{}))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := coordinator.Join(context.Background(), entryFor(1, "a@example.com", slotAt(10), time.Time{}))
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.created, 1)
}

func TestJoin_DifferentSlotCreatesSeparateEntry(t *testing.T) {
	repo := &fakeRepo{}
	coordinator := newCoordinator(repo, &fakeNotifier{})

	_, _, err := coordinator.Join(context.Background(), entryFor(1, "a@example.com", slotAt(10), time.Time{}))
	require.NoError(t, err)

	_, created, err := coordinator.Join(context.Background(), entryFor(1, "a@example.com", slotAt(11), time.Time{}))
	require.NoError(t, err)

	assert.True(t, created)
	assert.Len(t, repo.created, 2)
}

func TestPromoteOnCancellation_FIFO(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	coordinator := newCoordinator(repo, notifier)

	// Обе записи ждут один и тот же слот; вторая добавлена раньше
	late := entryFor(1, "late@example.com", slotAt(10), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	early := entryFor(1, "early@example.com", slotAt(10), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	_, _ = repo.Create(context.Background(), late)
	_, _ = repo.Create(context.Background(), early)

	promoted, err := coordinator.PromoteOnCancellation(context.Background(), 1, 10, 5, slotAt(10), slotAt(11))

	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.Equal(t, "early@example.com", promoted.CustomerEmail)
	assert.Equal(t, domain.WaitlistNotified, promoted.Status)
	require.NotNil(t, promoted.NotifiedAt)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, promoted.ID, notifier.events[0].EntryID)
}

func TestPromoteOnCancellation_NoWaitingEntries(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	coordinator := newCoordinator(repo, notifier)

	promoted, err := coordinator.PromoteOnCancellation(context.Background(), 1, 10, 5, slotAt(10), slotAt(11))

	require.NoError(t, err)
	assert.Nil(t, promoted)
	assert.Empty(t, notifier.events)
}

func TestPromoteOnCancellation_NotifiedEntryNotPromotedAgain(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	coordinator := newCoordinator(repo, notifier)

	entry := entryFor(1, "a@example.com", slotAt(10), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	_, _ = repo.Create(context.Background(), entry)

	first, err := coordinator.PromoteOnCancellation(context.Background(), 1, 10, 5, slotAt(10), slotAt(11))
	require.NoError(t, err)
	require.NotNil(t, first)

	// Повторная отмена того же интервала: ожидающих больше нет
	second, err := coordinator.PromoteOnCancellation(context.Background(), 1, 10, 5, slotAt(10), slotAt(11))
	require.NoError(t, err)
	assert.Nil(t, second)
	assert.Len(t, notifier.events, 1)
}

func TestPromoteOnCancellation_SlotOutsideFreedInterval(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	coordinator := newCoordinator(repo, notifier)

	entry := entryFor(1, "a@example.com", slotAt(14), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	_, _ = repo.Create(context.Background(), entry)

	promoted, err := coordinator.PromoteOnCancellation(context.Background(), 1, 10, 5, slotAt(10), slotAt(11))

	require.NoError(t, err)
	assert.Nil(t, promoted)
}

func TestPromoteOnCancellation_DifferentServiceNotPromoted(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	coordinator := newCoordinator(repo, notifier)

	entry := entryFor(1, "a@example.com", slotAt(10), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	_, _ = repo.Create(context.Background(), entry)

	// Освободился слот другой услуги того же сотрудника
	promoted, err := coordinator.PromoteOnCancellation(context.Background(), 1, 11, 5, slotAt(10), slotAt(11))

	require.NoError(t, err)
	assert.Nil(t, promoted)
	assert.Empty(t, notifier.events)
}

func TestPromoteOnCancellation_NotifyFailureDoesNotRollback(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{err: errors.New("notify service down")}
	coordinator := newCoordinator(repo, notifier)

	entry := entryFor(1, "a@example.com", slotAt(10), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	_, _ = repo.Create(context.Background(), entry)

	promoted, err := coordinator.PromoteOnCancellation(context.Background(), 1, 10, 5, slotAt(10), slotAt(11))

	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.Equal(t, domain.WaitlistNotified, promoted.Status)
}
