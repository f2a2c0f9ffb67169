package create_reservation

import (
	"time"

	"github.com/vkarpenko/shine-booking/pkg/types"
)

// Settings бизнес-параметры бронирования из конфигурации сервиса
type Settings struct {
	OpenTime           types.TimeString
	CloseTime          types.TimeString
	GranularityMinutes int
	ReferencePrefix    string
	LegacyExactMatch   bool
}

// Request модель запроса на создание бронирования
type Request struct {
	CustomerName  string           // Имя клиента
	CustomerEmail string           // Email клиента (ключ resolve-or-create)
	CustomerPhone *string          // Телефон (опционально)
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала слота (например, "10:00")
	ServiceType   string           // Тип услуги (длительность определяется каталогом)
	VehicleType   string           // Тип транспортного средства

	VehicleYear      *int    // Год выпуска (опционально)
	VehicleMake      *string // Марка (опционально)
	VehicleModel     *string // Модель (опционально)
	VehicleCondition *string // Состояние (опционально)

	Extras        []string // Выбранные дополнительные услуги
	PaymentMethod string   // "card" или "cash"
	Notes         *string  // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            // ID созданного бронирования
	Reference       string           // Человекочитаемый референс
	CustomerID      int64            // ID клиента
	Date            time.Time        // Дата бронирования
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	ServiceType     string           // Тип услуги
	VehicleType     string           // Тип транспортного средства
	Extras          []string         // Дополнительные услуги
	Price           float64          // Зафиксированная стоимость
	Status          string           // Статус бронирования
	PaymentStatus   string           // Статус оплаты
	Notes           *string          // Заметки

	CreatedAt time.Time // Время создания
}
