package get_stats

import (
	"context"
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
	reservationRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/reservation"
)

// StatsRepository интерфейс репозитория агрегатов по бронированиям
type StatsRepository interface {
	CountByDateRange(ctx context.Context, from, to time.Time) (int64, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	CountGrouped(ctx context.Context, from, to time.Time, dimension string) (map[string]int64, error)
	PaidRevenue(ctx context.Context, from, to time.Time) (sum float64, avg float64, err error)
	DailyCounts(ctx context.Context, from, to time.Time) ([]reservationRepo.DailyCount, error)
	TopCustomers(ctx context.Context, from, to time.Time, limit uint64) ([]reservationRepo.CustomerStat, error)
	Recent(ctx context.Context, limit uint64) ([]*domain.Reservation, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
