package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxLocationLength = 200
	MaxNameLength     = 100
	MaxEmailLength    = 100
	MaxPhoneLength    = 30
)

// BlockingStatuses список статусов, занимающих автомобиль при проверке
// доступности. Отмененные и завершенные бронирования дат не блокируют.
var BlockingStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// RevenueStatuses список статусов, учитываемых при подсчете выручки
var RevenueStatuses = []ReservationStatus{
	StatusConfirmed,
	StatusCompleted,
}
