package confirm_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidReservationID = "некорректный ID бронирования"
	msgNotFound             = "бронирование не найдено"
	msgMissingPaymentRef    = "отсутствует платежная ссылка"
	msgPaymentRefMismatch   = "бронирование уже подтверждено с другой платежной ссылкой"
	msgIllegalTransition    = "бронирование нельзя подтвердить в текущем статусе"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/confirm
//
// Вызывается платежным контуром после захвата платежа, поэтому проверка
// владельца здесь не выполняется. Повторный вызов с той же платежной
// ссылкой идемпотентен.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/confirm - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req ConfirmReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Confirm(r.Context(), reservationID, req.PaymentRef)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/confirm - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/confirm - Missing payment ref: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgMissingPaymentRef)

		case errors.Is(err, reservations.ErrPaymentRefMismatch):
			h.logger.Warn("PATCH /reservations/{id}/confirm - Payment ref mismatch: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgPaymentRefMismatch)

		case errors.Is(err, reservations.ErrIllegalTransition):
			h.logger.Warn("PATCH /reservations/{id}/confirm - Illegal transition: reservation_id=%d", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgIllegalTransition)

		default:
			h.logger.Error("PATCH /reservations/{id}/confirm - Failed to confirm reservation: reservation_id=%d, error=%v",
				reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/confirm - Reservation confirmed successfully: reservation_id=%d",
		reservationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
