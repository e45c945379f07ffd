package create_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Caller.ID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CarID <= 0 {
		return fmt.Errorf("%w: carID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInterval)
	}

	// Интервал полуоткрытый, конец строго позже начала.
	// Равенство дат тоже отклоняется.
	if !req.EndDate.After(req.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInterval)
	}

	// Цену считает вызывающая сторона (тариф x дни), сервис её не
	// пересчитывает, но отрицательную не принимает
	if req.TotalPrice < 0 {
		return fmt.Errorf("%w: totalPrice must be non-negative", ErrInvalidInput)
	}

	if req.PickupLocation != nil && len(*req.PickupLocation) > domain.MaxLocationLength {
		return fmt.Errorf("%w: pickupLocation is too long", ErrInvalidInput)
	}

	if req.DropoffLocation != nil && len(*req.DropoffLocation) > domain.MaxLocationLength {
		return fmt.Errorf("%w: dropoffLocation is too long", ErrInvalidInput)
	}

	if req.Customer != nil {
		if len(req.Customer.Name) > domain.MaxNameLength {
			return fmt.Errorf("%w: customer name is too long", ErrInvalidInput)
		}
		if len(req.Customer.Email) > domain.MaxEmailLength {
			return fmt.Errorf("%w: customer email is too long", ErrInvalidInput)
		}
		if len(req.Customer.Phone) > domain.MaxPhoneLength {
			return fmt.Errorf("%w: customer phone is too long", ErrInvalidInput)
		}
	}

	return nil
}
