package update_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrAccessDenied возвращается, когда вызывающий не владелец и не администратор
	ErrAccessDenied = errors.New("update_reservation: access denied")

	// ErrCannotUpdate возвращается при попытке изменить бронирование
	// в терминальном статусе
	ErrCannotUpdate = errors.New("update_reservation: reservation cannot be updated")

	// ErrCarNotFound возвращается, когда новый автомобиль не найден в каталоге
	ErrCarNotFound = errors.New("update_reservation: car not found")

	// ErrCarUnavailable возвращается, когда новый автомобиль снят с предложения
	ErrCarUnavailable = errors.New("update_reservation: car is not available for rental")

	// ErrInvalidInterval возвращается при некорректном интервале после применения патча
	ErrInvalidInterval = errors.New("update_reservation: invalid rental interval")

	// ErrDatesConflict возвращается, когда новый интервал пересекается с другим
	// блокирующим бронированием
	ErrDatesConflict = errors.New("update_reservation: car is already reserved for these dates")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)
