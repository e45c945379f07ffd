package delete_reservation

import (
	"context"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

type ReservationService interface {
	Delete(ctx context.Context, id int64, caller domain.Caller) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
