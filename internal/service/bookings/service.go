package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/slotmind/booking-engine/internal/domain"
	bookingRepo "github.com/slotmind/booking-engine/internal/infra/storage/booking"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование тенанта по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	s.logger.Info("GetByID: fetching booking id=%d for tenant=%d", id, tenantID)

	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found for tenant=%d", id, tenantID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return booking, nil
}

// GetTenantBookings получает бронирования тенанта с гибкой фильтрацией
// Поддерживает фильтрацию по сотруднику, периоду, статусу и включение
// неактивных бронирований
func (s *Service) GetTenantBookings(ctx context.Context, filter domain.TenantBookingsFilter) ([]*domain.Booking, error) {
	s.logger.Info("GetTenantBookings: fetching bookings for tenant=%d", filter.TenantID)

	// Валидация фильтра
	if filter.Status != nil && !domain.ValidBookingStatus(*filter.Status) {
		s.logger.Warn("GetTenantBookings: invalid status=%s for tenant=%d", *filter.Status, filter.TenantID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if filter.StartAt != nil && filter.EndAt != nil && filter.EndAt.Before(*filter.StartAt) {
		s.logger.Warn("GetTenantBookings: invalid period for tenant=%d", filter.TenantID)
		return nil, fmt.Errorf("%w: period end before start", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%d: %v", filter.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantBookings: successfully fetched %d bookings for tenant=%d", len(bookings), filter.TenantID)
	return bookings, nil
}
