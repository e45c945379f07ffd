package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// CustomerInfo контактные данные клиента в запросе.
// Если не переданы, снапшот берется из UserService.
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// Request модель запроса на создание бронирования
type Request struct {
	Caller     domain.Caller
	CarID      int64
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice float64

	// Опциональные поля; при отсутствии подставляются значения по умолчанию
	PickupLocation  *string
	DropoffLocation *string
	Customer        *CustomerInfo
}

// Response модель ответа создания бронирования
type Response struct {
	ID              int64
	UserID          int64
	CarID           int64
	StartDate       time.Time
	EndDate         time.Time
	TotalPrice      float64
	Status          string
	PickupLocation  string
	DropoffLocation string
	Customer        CustomerInfo
	CarBrand        string
	CarModel        string
	CarPricePerDay  float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// fromDomain собирает Response из созданного бронирования
func fromDomain(r *domain.Reservation) *Response {
	return &Response{
		ID:              r.ID,
		UserID:          r.UserID,
		CarID:           r.CarID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		TotalPrice:      r.TotalPrice,
		Status:          string(r.Status),
		PickupLocation:  r.PickupLocation,
		DropoffLocation: r.DropoffLocation,
		Customer: CustomerInfo{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		},
		CarBrand:       r.CarBrand,
		CarModel:       r.CarModel,
		CarPricePerDay: r.CarPricePerDay,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
