package domain

import "time"

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// CustomerInfo is a point-in-time snapshot of the customer's contact data,
// captured when the reservation is created. It is intentionally never
// resynchronized with later profile updates.
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// Reservation represents a rental of one car for one date interval.
// The interval is half-open: [StartDate, EndDate).
type Reservation struct {
	ID     int64
	UserID int64
	CarID  int64

	StartDate time.Time
	EndDate   time.Time

	TotalPrice float64
	Status     ReservationStatus

	// PaymentRef is set once the payment processor confirms capture
	PaymentRef *string

	PickupLocation  string
	DropoffLocation string

	Customer CustomerInfo

	// Denormalized car data for history; the catalog may change later
	CarBrand       string
	CarModel       string
	CarPricePerDay float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the reservation occupies the car for
// availability purposes
func (r *Reservation) IsBlocking() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are permitted
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusCompleted
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return !r.IsTerminal()
}

// CanBeUpdated returns true if the reservation fields can still be edited
func (r *Reservation) CanBeUpdated() bool {
	return !r.IsTerminal()
}

// CanTransition reports whether the status change from -> to is legal.
// The status only moves forward: nothing re-enters pending, and the
// terminal statuses accept no transitions at all.
func CanTransition(from, to ReservationStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled || to == StatusCompleted
	default:
		return false
	}
}

// ValidStatus reports whether s is one of the known reservation statuses
func ValidStatus(s ReservationStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IntervalsOverlap reports whether two half-open intervals share at least
// one instant. Back-to-back intervals (one ends exactly when the other
// starts) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	UserID *int64             // Фильтр по владельцу (nil - все пользователи)
	Status *ReservationStatus // Фильтр по статусу (опционально)
}
