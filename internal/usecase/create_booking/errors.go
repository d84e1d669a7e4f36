package create_booking

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("create_booking: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrStaffInactive возвращается, когда сотрудник неактивен
	ErrStaffInactive = errors.New("create_booking: staff member is inactive")

	// ErrOutsideAvailability возвращается, когда интервал выходит за рамки
	// правил доступности или попадает в блокирующее исключение
	ErrOutsideAvailability = errors.New("create_booking: interval is outside availability")

	// ErrSlotOccupied возвращается, когда интервал пересекается с активным
	// бронированием сотрудника (с учётом буфера). Вызывающая сторона
	// различает эту ошибку для авто-добавления в лист ожидания.
	ErrSlotOccupied = errors.New("create_booking: slot is occupied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
