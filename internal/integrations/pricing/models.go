package pricing

// Service описание услуги из каталога прайсинг-сервиса
type Service struct {
	Type            string  `json:"type"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	BasePrice       float64 `json:"base_price"`
}

// QuoteRequest запрос на расчёт стоимости
type QuoteRequest struct {
	ServiceType string   `json:"service_type"`
	VehicleType string   `json:"vehicle_type"`
	Extras      []string `json:"extras,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
}

// Quote рассчитанная стоимость
type Quote struct {
	Amount float64 `json:"amount"`
}

// ErrorResponse модель ошибки от прайсинг-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
