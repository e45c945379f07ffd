package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/integrations/carservice"
	"github.com/m04kA/SMC-RentalService/internal/integrations/userservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	FindBlockingOverlaps(ctx context.Context, carID int64, start, end time.Time, excludeID *int64) ([]*domain.Reservation, error)
}

// CarServiceClient интерфейс клиента каталога автомобилей
type CarServiceClient interface {
	GetCar(ctx context.Context, carID int64) (*carservice.Car, error)
}

// UserServiceClient интерфейс клиента профилей пользователей
type UserServiceClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
