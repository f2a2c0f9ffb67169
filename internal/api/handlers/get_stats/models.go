package get_stats

import (
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/internal/service/reservations/models"
	getStats "github.com/vkarpenko/shine-booking/internal/usecase/get_stats"
)

// StatsResponse HTTP response model
type StatsResponse struct {
	From string `json:"from"`
	To   string `json:"to"`

	TotalReservations int64 `json:"totalReservations"`
	TodayReservations int64 `json:"todayReservations"`

	ByStatus      map[string]int64 `json:"byStatus"`
	ByServiceType map[string]int64 `json:"byServiceType"`
	ByVehicleType map[string]int64 `json:"byVehicleType"`

	PaidRevenue  float64 `json:"paidRevenue"`
	AverageCheck float64 `json:"averageCheck"`

	DailyCounts  []DailyCount                 `json:"dailyCounts"`
	TopCustomers []CustomerStat               `json:"topCustomers"`
	Recent       []models.ReservationResponse `json:"recent"`
}

// DailyCount количество бронирований за день
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// CustomerStat агрегат по клиенту
type CustomerStat struct {
	CustomerID   int64   `json:"customerId"`
	CustomerName string  `json:"customerName"`
	Reservations int64   `json:"reservations"`
	TotalSpend   float64 `json:"totalSpend"`
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Обе границы периода опциональны.
func ToUseCaseRequest(fromStr, toStr string) (*getStats.Request, error) {
	req := &getStats.Request{}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.From = from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.To = to
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getStats.Response) *StatsResponse {
	daily := make([]DailyCount, len(resp.DailyCounts))
	for i, dc := range resp.DailyCounts {
		daily[i] = DailyCount{
			Date:  dc.Date.Format(domain.DateFormat),
			Count: dc.Count,
		}
	}

	top := make([]CustomerStat, len(resp.TopCustomers))
	for i, cs := range resp.TopCustomers {
		top[i] = CustomerStat{
			CustomerID:   cs.CustomerID,
			CustomerName: cs.CustomerName,
			Reservations: cs.Reservations,
			TotalSpend:   cs.TotalSpend,
		}
	}

	recent := models.FromDomainReservationList(resp.Recent)

	return &StatsResponse{
		From:              resp.From.Format(domain.DateFormat),
		To:                resp.To.Format(domain.DateFormat),
		TotalReservations: resp.TotalReservations,
		TodayReservations: resp.TodayReservations,
		ByStatus:          resp.ByStatus,
		ByServiceType:     resp.ByServiceType,
		ByVehicleType:     resp.ByVehicleType,
		PaidRevenue:       resp.PaidRevenue,
		AverageCheck:      resp.AverageCheck,
		DailyCounts:       daily,
		TopCustomers:      top,
		Recent:            recent.Reservations,
	}
}
