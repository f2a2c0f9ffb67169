package get_available_slots

import (
	"time"

	"github.com/vkarpenko/shine-booking/pkg/types"
)

// Settings бизнес-параметры бронирования из конфигурации сервиса
type Settings struct {
	OpenTime           types.TimeString
	CloseTime          types.TimeString
	GranularityMinutes int
	LegacyExactMatch   bool
}

// Request модель запроса на получение слотов
type Request struct {
	Date        time.Time // Дата, на которую запрашиваются слоты (без времени)
	ServiceType string    // Тип услуги — определяет длительность
}

// Response модель ответа со списком слотов дня
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	ServiceType     string    // Тип услуги
	DurationMinutes int       // Длительность услуги
	Slots           []Slot    // Сетка слотов дня
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Available bool             // Свободен ли слот для бронирования
}
