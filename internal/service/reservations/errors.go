package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается при попытке отменить бронирование
	// в терминальном статусе (cancelled/completed)
	ErrCannotCancel = errors.New("reservation cannot be cancelled")

	// ErrIllegalTransition возвращается при недопустимом переходе статуса
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrPaymentRefMismatch возвращается, когда бронирование уже подтверждено
	// с другой платежной ссылкой
	ErrPaymentRefMismatch = errors.New("reservation already confirmed with a different payment reference")

	// ErrInvalidStatus возвращается при неизвестном статусе в запросе
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
