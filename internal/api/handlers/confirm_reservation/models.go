package confirm_reservation

// ConfirmReservationRequest HTTP request model.
// paymentRef - идентификатор захваченного платежа от платежного шлюза.
type ConfirmReservationRequest struct {
	PaymentRef string `json:"paymentRef"`
}
