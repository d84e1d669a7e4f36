package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено у тенанта
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrInvalidTransition возвращается при переносе отменённого или
	// завершённого бронирования
	ErrInvalidTransition = errors.New("reschedule_booking: invalid status transition")

	// ErrNoticeWindowViolation возвращается, когда до текущего начала
	// бронирования осталось меньше минимального срока переноса
	ErrNoticeWindowViolation = errors.New("reschedule_booking: reschedule notice window violated")

	// ErrOutsideAvailability возвращается, когда новый интервал выходит за
	// рамки правил доступности или попадает в блокирующее исключение
	ErrOutsideAvailability = errors.New("reschedule_booking: interval is outside availability")

	// ErrSlotOccupied возвращается, когда новый интервал пересекается с
	// активным бронированием сотрудника (с учётом буфера)
	ErrSlotOccupied = errors.New("reschedule_booking: slot is occupied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
