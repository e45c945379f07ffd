package create_reservation

import "errors"

var (
	// ErrCarNotFound возвращается, когда автомобиль не найден в каталоге
	ErrCarNotFound = errors.New("create_reservation: car not found")

	// ErrCarUnavailable возвращается, когда автомобиль снят с предложения
	// (флаг availability в каталоге)
	ErrCarUnavailable = errors.New("create_reservation: car is not available for rental")

	// ErrInvalidInterval возвращается, когда дата окончания не позже даты начала
	// или даты отсутствуют
	ErrInvalidInterval = errors.New("create_reservation: invalid rental interval")

	// ErrDatesConflict возвращается, когда интервал пересекается с существующим
	// блокирующим бронированием (pending/confirmed)
	ErrDatesConflict = errors.New("create_reservation: car is already reserved for these dates")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
