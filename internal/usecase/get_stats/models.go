package get_stats

import (
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
)

// Количество дней периода по умолчанию и размеры топов
const (
	defaultPeriodDays = 30
	dailySeriesDays   = 7
	topCustomersLimit = 5
	recentLimit       = 10
)

// Request модель запроса статистики. Нулевые границы заменяются
// периодом по умолчанию (последние 30 дней).
type Request struct {
	From time.Time
	To   time.Time
}

// Response сводка по бронированиям за период
type Response struct {
	From time.Time
	To   time.Time

	TotalReservations int64 // Всего бронирований за период
	TodayReservations int64 // Бронирований на сегодня

	ByStatus      map[string]int64 // Разбивка по статусам
	ByServiceType map[string]int64 // Разбивка по типам услуг
	ByVehicleType map[string]int64 // Разбивка по типам транспорта

	PaidRevenue  float64 // Сумма по оплаченным бронированиям
	AverageCheck float64 // Средний чек по оплаченным

	DailyCounts  []DailyCount          // Бронирования по дням за последнюю неделю периода
	TopCustomers []CustomerStat        // Самые активные клиенты периода
	Recent       []*domain.Reservation // Последние созданные бронирования
}

// DailyCount количество бронирований за день
type DailyCount struct {
	Date  time.Time
	Count int64
}

// CustomerStat агрегат по клиенту
type CustomerStat struct {
	CustomerID   int64
	CustomerName string
	Reservations int64
	TotalSpend   float64
}
