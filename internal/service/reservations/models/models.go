package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// ListReservationsRequest запрос на получение списка бронирований.
// Для обычного пользователя список ограничивается его собственными
// бронированиями независимо от фильтра.
type ListReservationsRequest struct {
	Caller domain.Caller
	Status *string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{}

	// Не-администратор видит только свои бронирования
	if !r.Caller.IsAdmin() {
		userID := r.Caller.ID
		filter.UserID = &userID
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateStatusRequest запрос на административное изменение статуса
type UpdateStatusRequest struct {
	Caller domain.Caller
	Status string
}

// Response модели

// CustomerInfoResponse контактный снапшот клиента
type CustomerInfoResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CarSnapshotResponse денормализованные данные автомобиля на момент бронирования
type CarSnapshotResponse struct {
	ID          int64   `json:"id"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	PricePerDay float64 `json:"pricePerDay"`
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64                `json:"id"`
	UserID          int64                `json:"userId"`
	StartDate       string               `json:"startDate"` // "2025-10-15"
	EndDate         string               `json:"endDate"`   // "2025-10-18"
	TotalPrice      float64              `json:"totalPrice"`
	Status          string               `json:"status"`
	PaymentRef      *string              `json:"paymentRef,omitempty"`
	PickupLocation  string               `json:"pickupLocation"`
	DropoffLocation string               `json:"dropoffLocation"`
	Customer        CustomerInfoResponse `json:"customerInfo"`
	Car             CarSnapshotResponse  `json:"car"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// StatsResponse агрегированная статистика по бронированиям
type StatsResponse struct {
	Total        int64   `json:"totalReservations"`
	Pending      int64   `json:"pendingReservations"`
	Confirmed    int64   `json:"confirmedReservations"`
	Cancelled    int64   `json:"cancelledReservations"`
	Completed    int64   `json:"completedReservations"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		StartDate:       r.StartDate.Format(domain.DateFormat),
		EndDate:         r.EndDate.Format(domain.DateFormat),
		TotalPrice:      r.TotalPrice,
		Status:          string(r.Status),
		PaymentRef:      r.PaymentRef,
		PickupLocation:  r.PickupLocation,
		DropoffLocation: r.DropoffLocation,
		Customer: CustomerInfoResponse{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		Car: CarSnapshotResponse{
			ID:          r.CarID,
			Brand:       r.CarBrand,
			Model:       r.CarModel,
			PricePerDay: r.CarPricePerDay,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if dto := FromDomainReservation(r); dto != nil {
			resp.Reservations = append(resp.Reservations, *dto)
		}
	}

	return resp
}

// FromDomainStats конвертирует domain статистику в DTO
func FromDomainStats(s domain.ReservationStats) *StatsResponse {
	return &StatsResponse{
		Total:        s.Total,
		Pending:      s.Pending,
		Confirmed:    s.Confirmed,
		Cancelled:    s.Cancelled,
		Completed:    s.Completed,
		TotalRevenue: s.TotalRevenue,
	}
}

// ToDomainStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !domain.ValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
