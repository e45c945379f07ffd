package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	updateReservation "github.com/m04kA/SMC-RentalService/internal/usecase/update_reservation"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgCannotUpdate         = "бронирование в текущем статусе нельзя изменить"
	msgCarNotFound          = "автомобиль не найден"
	msgCarUnavailable       = "автомобиль недоступен для аренды"
	msgInvalidInterval      = "некорректный интервал аренды"
	msgDatesConflict        = "автомобиль уже забронирован на выбранные даты"
	msgInvalidInput         = "некорректные входные данные"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("PUT /reservations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(caller, reservationID)
	if err != nil {
		h.logger.Warn("PUT /reservations/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PUT /reservations/{id} - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrAccessDenied):
			h.logger.Warn("PUT /reservations/{id} - Access denied: reservation_id=%d, user_id=%d",
				reservationID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateReservation.ErrCannotUpdate):
			h.logger.Warn("PUT /reservations/{id} - Cannot update: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgCannotUpdate)

		case errors.Is(err, updateReservation.ErrDatesConflict):
			h.logger.Warn("PUT /reservations/{id} - Dates conflict: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgDatesConflict)

		case errors.Is(err, updateReservation.ErrCarNotFound):
			h.logger.Warn("PUT /reservations/{id} - Car not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgCarNotFound)

		case errors.Is(err, updateReservation.ErrCarUnavailable):
			h.logger.Warn("PUT /reservations/{id} - Car unavailable: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCarUnavailable)

		case errors.Is(err, updateReservation.ErrInvalidInterval):
			h.logger.Warn("PUT /reservations/{id} - Invalid interval: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgInvalidInterval)

		case errors.Is(err, updateReservation.ErrInvalidInput):
			h.logger.Warn("PUT /reservations/{id} - Invalid input: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /reservations/{id} - Failed to update reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /reservations/{id} - Reservation updated successfully: reservation_id=%d, user_id=%d",
		reservationID, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
