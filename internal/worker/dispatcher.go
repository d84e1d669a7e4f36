// Package worker содержит фоновый диспетчер напоминаний: периодически
// находит активные бронирования, начинающиеся в пределах lead-окна, и
// рассылает напоминания клиентам.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/slotmind/booking-engine/internal/domain"
	"github.com/slotmind/booking-engine/internal/integrations/notifyservice"
)

// Config конфигурация диспетчера напоминаний
type Config struct {
	// Interval период между циклами
	Interval time.Duration

	// Lead за сколько до начала бронирования отправляется напоминание
	Lead time.Duration
}

// Dispatcher периодический диспетчер напоминаний
type Dispatcher struct {
	cfg          Config
	bookingRepo  BookingRepository
	notifyClient NotifyServiceClient
	timeProvider TimeProvider
	logger       Logger

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher создает новый диспетчер напоминаний
func NewDispatcher(cfg Config, bookingRepo BookingRepository, notifyClient NotifyServiceClient, logger Logger) *Dispatcher {
	return &Dispatcher{
		cfg:          cfg,
		bookingRepo:  bookingRepo,
		notifyClient: notifyClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Start запускает фоновый цикл диспетчера
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ticker := time.NewTicker(d.cfg.Interval)
		defer ticker.Stop()

		d.logger.Info("ReminderDispatcher: started, interval=%s, lead=%s", d.cfg.Interval, d.cfg.Lead)

		for {
			select {
			case <-ctx.Done():
				d.logger.Info("ReminderDispatcher: stopped")
				return
			case <-ticker.C:
				if err := d.Run(ctx); err != nil {
					d.logger.Error("ReminderDispatcher: cycle failed: %v", err)
				}
			}
		}
	}()
}

// Stop останавливает диспетчер и дожидается завершения текущего цикла
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.wg.Wait()
}

// Run выполняет один цикл рассылки напоминаний.
// Повторный вход защищён флагом: пока предыдущий цикл не завершился,
// новый пропускается. Ошибка по одному бронированию не прерывает
// обработку остальных.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		d.logger.Warn("ReminderDispatcher: previous cycle still running, skipping")
		return nil
	}
	defer d.running.Store(false)

	now := d.timeProvider.Now().UTC()

	due, err := d.bookingRepo.FindDueReminders(ctx, now, now.Add(d.cfg.Lead))
	if err != nil {
		return fmt.Errorf("find due reminders: %w", err)
	}

	if len(due) == 0 {
		return nil
	}

	d.logger.Info("ReminderDispatcher: %d reminders due", len(due))

	var failed int
	for _, booking := range due {
		if err := d.remind(ctx, booking, now); err != nil {
			d.logger.Error("ReminderDispatcher: reminder for booking id=%d failed: %v", booking.ID, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reminders failed", failed, len(due))
	}

	return nil
}

// remind отправляет одно напоминание и фиксирует отправку.
// Отметка ставится только после успешной отправки: при сбое напоминание
// будет повторено следующим циклом.
func (d *Dispatcher) remind(ctx context.Context, booking *domain.Booking, now time.Time) error {
	event := notifyservice.BookingReminderEvent{
		TenantID:      booking.TenantID,
		BookingID:     booking.ID,
		CustomerEmail: booking.CustomerEmail,
		CustomerName:  booking.CustomerName,
		StartAt:       booking.StartAt,
	}

	if err := d.notifyClient.NotifyBookingReminder(ctx, event); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	if err := d.bookingRepo.MarkReminderSent(ctx, booking.ID, now); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}

	return nil
}
