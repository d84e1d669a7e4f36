package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено у тенанта
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrInvalidTransition возвращается при отмене из терминального статуса
	// (completed, no_show)
	ErrInvalidTransition = errors.New("cancel_booking: invalid status transition")

	// ErrNoticeWindowViolation возвращается, когда до начала бронирования
	// осталось меньше минимального срока отмены
	ErrNoticeWindowViolation = errors.New("cancel_booking: cancellation notice window violated")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
