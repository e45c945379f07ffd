package carservice

import "errors"

var (
	// ErrCarNotFound возвращается, когда автомобиль не найден в каталоге
	ErrCarNotFound = errors.New("car not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("carservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("carservice client: invalid response")
)
