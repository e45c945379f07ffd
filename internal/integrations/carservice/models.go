package carservice

// Car модель автомобиля из каталога CarService
type Car struct {
	ID          int64   `json:"id"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	PricePerDay float64 `json:"price_per_day"`
	// Availability флаг "автомобиль вообще предлагается к аренде".
	// Не путать с занятостью на конкретные даты - её проверяет сам сервис.
	Availability bool `json:"availability"`
}

// ErrorResponse модель ошибки от CarService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
