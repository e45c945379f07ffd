package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	updateReservation "github.com/m04kA/SMC-RentalService/internal/usecase/update_reservation"
)

// CustomerInfoRequest контактные данные клиента в патче
type CustomerInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateReservationRequest HTTP request model.
// Отсутствующие поля не изменяются.
type UpdateReservationRequest struct {
	CarID           *int64               `json:"carId,omitempty"`
	StartDate       *string              `json:"startDate,omitempty"` // "2025-10-15"
	EndDate         *string              `json:"endDate,omitempty"`   // "2025-10-18"
	TotalPrice      *float64             `json:"totalPrice,omitempty"`
	PickupLocation  *string              `json:"pickupLocation,omitempty"`
	DropoffLocation *string              `json:"dropoffLocation,omitempty"`
	Customer        *CustomerInfoRequest `json:"customerInfo,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64               `json:"id"`
	UserID          int64               `json:"userId"`
	StartDate       string              `json:"startDate"`
	EndDate         string              `json:"endDate"`
	TotalPrice      float64             `json:"totalPrice"`
	Status          string              `json:"status"`
	PickupLocation  string              `json:"pickupLocation"`
	DropoffLocation string              `json:"dropoffLocation"`
	Customer        CustomerInfoRequest `json:"customerInfo"`
	Car             CarSnapshot         `json:"car"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt"`
}

// CarSnapshot денормализованные данные автомобиля
type CarSnapshot struct {
	ID          int64   `json:"id"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	PricePerDay float64 `json:"pricePerDay"`
}

// ToUseCaseRequest конвертирует HTTP патч в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(caller domain.Caller, reservationID int64) (*updateReservation.Request, error) {
	req := &updateReservation.Request{
		Caller:          caller,
		ReservationID:   reservationID,
		CarID:           r.CarID,
		TotalPrice:      r.TotalPrice,
		PickupLocation:  r.PickupLocation,
		DropoffLocation: r.DropoffLocation,
	}

	if r.StartDate != nil {
		startDate, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if r.EndDate != nil {
		endDate, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if r.Customer != nil {
		req.Customer = &updateReservation.CustomerInfo{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
			Phone: r.Customer.Phone,
		}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		StartDate:       resp.StartDate.Format(domain.DateFormat),
		EndDate:         resp.EndDate.Format(domain.DateFormat),
		TotalPrice:      resp.TotalPrice,
		Status:          resp.Status,
		PickupLocation:  resp.PickupLocation,
		DropoffLocation: resp.DropoffLocation,
		Customer: CustomerInfoRequest{
			Name:  resp.Customer.Name,
			Email: resp.Customer.Email,
			Phone: resp.Customer.Phone,
		},
		Car: CarSnapshot{
			ID:          resp.CarID,
			Brand:       resp.CarBrand,
			Model:       resp.CarModel,
			PricePerDay: resp.CarPricePerDay,
		},
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
