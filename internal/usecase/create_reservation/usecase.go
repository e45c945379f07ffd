package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	carClient "github.com/m04kA/SMC-RentalService/internal/integrations/carservice"
	userClient "github.com/m04kA/SMC-RentalService/internal/integrations/userservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	carClient       CarServiceClient
	userClient      UserServiceClient
	txManager       TransactionManager
	defaultLocation string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	carClient CarServiceClient,
	userClient UserServiceClient,
	txManager TransactionManager,
	defaultLocation string,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		carClient:       carClient,
		userClient:      userClient,
		txManager:       txManager,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечения интервалов и вставка выполняются в одной
// сериализуемой транзакции: из двух конкурирующих запросов на те же
// даты того же автомобиля успешным будет ровно один, второй получит
// ErrDatesConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, car=%d, interval=[%s, %s)",
		req.Caller.ID, req.CarID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что автомобиль существует и предлагается к аренде
	car, err := uc.carClient.GetCar(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, carClient.ErrCarNotFound) {
			uc.logger.Warn("CreateReservation: car id=%d not found", req.CarID)
			return nil, ErrCarNotFound
		}
		uc.logger.Error("CreateReservation: failed to get car id=%d: %v", req.CarID, err)
		return nil, fmt.Errorf("%w: failed to get car: %v", ErrInternal, err)
	}

	if !car.Availability {
		uc.logger.Warn("CreateReservation: car id=%d is not offered for rental", req.CarID)
		return nil, ErrCarUnavailable
	}

	// 3. Контактный снапшот клиента: из запроса или из UserService.
	// Снапшот фиксируется на момент бронирования и дальше с профилем
	// не синхронизируется.
	customer := uc.resolveCustomer(ctx, req)

	// 4. Точки выдачи и возврата по умолчанию
	pickup := uc.defaultLocation
	if req.PickupLocation != nil && *req.PickupLocation != "" {
		pickup = *req.PickupLocation
	}
	dropoff := uc.defaultLocation
	if req.DropoffLocation != nil && *req.DropoffLocation != "" {
		dropoff = *req.DropoffLocation
	}

	reservation := &domain.Reservation{
		UserID:          req.Caller.ID,
		CarID:           req.CarID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalPrice:      req.TotalPrice,
		Status:          domain.StatusPending,
		PickupLocation:  pickup,
		DropoffLocation: dropoff,
		Customer:        customer,
		// Денормализация данных автомобиля для истории
		CarBrand:       car.Brand,
		CarModel:       car.Model,
		CarPricePerDay: car.PricePerDay,
	}

	// 5. Проверка пересечения и вставка в сериализуемой транзакции
	var result *domain.Reservation

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		overlaps, err := uc.reservationRepo.FindBlockingOverlaps(txCtx, req.CarID, req.StartDate, req.EndDate, nil)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to check overlaps: %v", err)
			// Цепочка ошибки драйвера сохраняется: txmanager распознает
			// в ней serialization failure и повторяет транзакцию
			return fmt.Errorf("%w: failed to check overlaps: %w", ErrInternal, err)
		}

		if len(overlaps) > 0 {
			uc.logger.Warn("CreateReservation: car id=%d already reserved, %d overlapping reservation(s)",
				req.CarID, len(overlaps))
			return ErrDatesConflict
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)
	return fromDomain(result), nil
}

// resolveCustomer возвращает контактный снапшот: из запроса, если он там
// есть, иначе из UserService. Недоступность UserService не блокирует
// бронирование - снапшот остается пустым.
func (uc *UseCase) resolveCustomer(ctx context.Context, req *Request) domain.CustomerInfo {
	if req.Customer != nil {
		return domain.CustomerInfo{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}

	user, err := uc.userClient.GetUserWithGracefulDegradation(ctx, req.Caller.ID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: user id=%d not found in UserService, empty customer snapshot", req.Caller.ID)
		}
		// ErrServiceDegraded уже залогирован клиентом
		return domain.CustomerInfo{}
	}

	return domain.CustomerInfo{
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}
}
