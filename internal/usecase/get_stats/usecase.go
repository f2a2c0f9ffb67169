package get_stats

import (
	"context"
	"fmt"
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
)

// UseCase use case для получения сводной статистики по бронированиям
type UseCase struct {
	statsRepo    StatsRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(statsRepo StatsRepository, logger Logger) *UseCase {
	return &UseCase{
		statsRepo:    statsRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения статистики.
// Пустая база — валидный случай: все агрегаты отдаются нулями.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// 1. Нормализуем период
	from, to := req.From, req.To
	if to.IsZero() {
		to = today
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultPeriodDays)
	}
	if to.Before(from) {
		uc.logger.Warn("GetStats: invalid period %s..%s",
			from.Format(domain.DateFormat), to.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	uc.logger.Info("GetStats: period %s..%s",
		from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	resp := &Response{From: from, To: to}

	// 2. Общие счётчики
	total, err := uc.statsRepo.CountByDateRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetStats: failed to count reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to count reservations: %v", ErrInternal, err)
	}
	resp.TotalReservations = total

	todayCount, err := uc.statsRepo.CountByDate(ctx, today)
	if err != nil {
		uc.logger.Error("GetStats: failed to count today's reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to count today's reservations: %v", ErrInternal, err)
	}
	resp.TodayReservations = todayCount

	// 3. Разбивки по измерениям
	for dimension, dst := range map[string]*map[string]int64{
		"status":       &resp.ByStatus,
		"service_type": &resp.ByServiceType,
		"vehicle_type": &resp.ByVehicleType,
	} {
		counts, err := uc.statsRepo.CountGrouped(ctx, from, to, dimension)
		if err != nil {
			uc.logger.Error("GetStats: failed to group by %s: %v", dimension, err)
			return nil, fmt.Errorf("%w: failed to group by %s: %v", ErrInternal, dimension, err)
		}
		*dst = counts
	}

	// 4. Выручка по оплаченным
	sum, avg, err := uc.statsRepo.PaidRevenue(ctx, from, to)
	if err != nil {
		uc.logger.Error("GetStats: failed to get paid revenue: %v", err)
		return nil, fmt.Errorf("%w: failed to get paid revenue: %v", ErrInternal, err)
	}
	resp.PaidRevenue = sum
	resp.AverageCheck = avg

	// 5. Динамика за хвост периода (последняя неделя)
	seriesFrom := to.AddDate(0, 0, -(dailySeriesDays - 1))
	if seriesFrom.Before(from) {
		seriesFrom = from
	}
	daily, err := uc.statsRepo.DailyCounts(ctx, seriesFrom, to)
	if err != nil {
		uc.logger.Error("GetStats: failed to get daily counts: %v", err)
		return nil, fmt.Errorf("%w: failed to get daily counts: %v", ErrInternal, err)
	}
	resp.DailyCounts = make([]DailyCount, 0, len(daily))
	for _, dc := range daily {
		resp.DailyCounts = append(resp.DailyCounts, DailyCount{Date: dc.Date, Count: dc.Count})
	}

	// 6. Топ клиентов периода
	top, err := uc.statsRepo.TopCustomers(ctx, from, to, topCustomersLimit)
	if err != nil {
		uc.logger.Error("GetStats: failed to get top customers: %v", err)
		return nil, fmt.Errorf("%w: failed to get top customers: %v", ErrInternal, err)
	}
	resp.TopCustomers = make([]CustomerStat, 0, len(top))
	for _, cs := range top {
		resp.TopCustomers = append(resp.TopCustomers, CustomerStat{
			CustomerID:   cs.CustomerID,
			CustomerName: cs.CustomerName,
			Reservations: cs.Reservations,
			TotalSpend:   cs.TotalSpend,
		})
	}

	// 7. Последние бронирования
	recent, err := uc.statsRepo.Recent(ctx, recentLimit)
	if err != nil {
		uc.logger.Error("GetStats: failed to get recent reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get recent reservations: %v", ErrInternal, err)
	}
	resp.Recent = recent

	return resp, nil
}
