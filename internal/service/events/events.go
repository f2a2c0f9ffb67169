package events

// Типы событий жизненного цикла бронирования
const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationStatusChanged = "reservation.status_changed"
	TypeReservationCancelled     = "reservation.cancelled"
)

// ReservationEvent событие жизненного цикла бронирования.
// Содержит достаточно данных, чтобы консьюмеры (уведомления, аналитика)
// не ходили в основную БД.
type ReservationEvent struct {
	Type          string  `json:"type"`
	ReservationID int64   `json:"reservation_id"`
	Reference     string  `json:"reference"`
	CustomerID    int64   `json:"customer_id"`
	Date          string  `json:"date"`       // YYYY-MM-DD
	StartTime     string  `json:"start_time"` // HH:MM
	ServiceType   string  `json:"service_type"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	Price         float64 `json:"price"`
	OccurredAt    string  `json:"occurred_at"` // RFC 3339
}
