package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	carClient "github.com/m04kA/SMC-RentalService/internal/integrations/carservice"
)

// UseCase use case для редактирования бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	carClient       CarServiceClient
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	carClient CarServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		carClient:       carClient,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case редактирования бронирования.
// Если патч меняет даты или автомобиль, доступность перепроверяется
// в сериализуемой транзакции, исключая само редактируемое бронирование
// из проверки пересечений.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: reservation=%d, user=%d", req.ReservationID, req.Caller.ID)

	if req.ReservationID <= 0 {
		return nil, fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	// 1. Получаем текущее состояние и проверяем права
	current, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
	}

	if !req.Caller.CanAccess(current.UserID) {
		uc.logger.Warn("UpdateReservation: access denied for user=%d to reservation id=%d",
			req.Caller.ID, req.ReservationID)
		return nil, ErrAccessDenied
	}

	if !current.CanBeUpdated() {
		uc.logger.Warn("UpdateReservation: reservation id=%d cannot be updated, status=%s",
			req.ReservationID, current.Status)
		return nil, ErrCannotUpdate
	}

	// 2. Применяем патч к копии и валидируем результат
	updated := *current
	if err := uc.applyPatch(&updated, req); err != nil {
		uc.logger.Warn("UpdateReservation: patch validation failed: %v", err)
		return nil, err
	}

	// 3. Смена автомобиля: проверяем каталог и обновляем снапшот
	if req.CarID != nil && *req.CarID != current.CarID {
		car, err := uc.carClient.GetCar(ctx, *req.CarID)
		if err != nil {
			if errors.Is(err, carClient.ErrCarNotFound) {
				uc.logger.Warn("UpdateReservation: car id=%d not found", *req.CarID)
				return nil, ErrCarNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get car id=%d: %v", *req.CarID, err)
			return nil, fmt.Errorf("%w: failed to get car: %v", ErrInternal, err)
		}
		if !car.Availability {
			uc.logger.Warn("UpdateReservation: car id=%d is not offered for rental", *req.CarID)
			return nil, ErrCarUnavailable
		}
		updated.CarBrand = car.Brand
		updated.CarModel = car.Model
		updated.CarPricePerDay = car.PricePerDay
	}

	// 4. Запись: с перепроверкой доступности, если интервал затронут
	if req.changesInterval() {
		err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			overlaps, err := uc.reservationRepo.FindBlockingOverlaps(
				txCtx, updated.CarID, updated.StartDate, updated.EndDate, &updated.ID)
			if err != nil {
				uc.logger.Error("UpdateReservation: failed to check overlaps: %v", err)
				// Цепочка ошибки драйвера сохраняется для retry в txmanager
				return fmt.Errorf("%w: failed to check overlaps: %w", ErrInternal, err)
			}

			if len(overlaps) > 0 {
				uc.logger.Warn("UpdateReservation: car id=%d already reserved, %d overlapping reservation(s)",
					updated.CarID, len(overlaps))
				return ErrDatesConflict
			}

			return uc.reservationRepo.Update(txCtx, &updated)
		})
	} else {
		err = uc.reservationRepo.Update(ctx, &updated)
	}

	if err != nil {
		if errors.Is(err, ErrDatesConflict) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
	}

	uc.logger.Info("UpdateReservation: successfully updated reservation id=%d", req.ReservationID)
	return fromDomain(&updated), nil
}

// applyPatch накладывает непустые поля запроса на бронирование
func (uc *UseCase) applyPatch(res *domain.Reservation, req *Request) error {
	if req.CarID != nil {
		if *req.CarID <= 0 {
			return fmt.Errorf("%w: carID must be positive", ErrInvalidInput)
		}
		res.CarID = *req.CarID
	}

	if req.StartDate != nil {
		res.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		res.EndDate = *req.EndDate
	}

	// Итоговый интервал валидируется после слияния: патч может менять
	// только одну из дат
	if !res.EndDate.After(res.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInterval)
	}

	if req.TotalPrice != nil {
		if *req.TotalPrice < 0 {
			return fmt.Errorf("%w: totalPrice must be non-negative", ErrInvalidInput)
		}
		res.TotalPrice = *req.TotalPrice
	}

	if req.PickupLocation != nil {
		if len(*req.PickupLocation) > domain.MaxLocationLength {
			return fmt.Errorf("%w: pickupLocation is too long", ErrInvalidInput)
		}
		res.PickupLocation = *req.PickupLocation
	}

	if req.DropoffLocation != nil {
		if len(*req.DropoffLocation) > domain.MaxLocationLength {
			return fmt.Errorf("%w: dropoffLocation is too long", ErrInvalidInput)
		}
		res.DropoffLocation = *req.DropoffLocation
	}

	if req.Customer != nil {
		res.Customer = domain.CustomerInfo{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}

	return nil
}
