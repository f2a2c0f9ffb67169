package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/pkg/dbmetrics"
	"github.com/vkarpenko/shine-booking/pkg/psqlbuilder"
)

// Разрешённые измерения группировки — защита от подстановки произвольной колонки
var groupColumns = map[string]string{
	"status":       "status",
	"service_type": "service_type",
	"vehicle_type": "vehicle_type",
}

// DailyCount количество бронирований за один день
type DailyCount struct {
	Date  time.Time
	Count int64
}

// CustomerStat агрегат по клиенту за период
type CustomerStat struct {
	CustomerID   int64
	CustomerName string
	Reservations int64
	TotalSpend   float64
}

// CountByDateRange возвращает количество бронирований за период
func (r *Repository) CountByDateRange(ctx context.Context, from, to time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.GtOrEq{"reservation_date": from}).
		Where(squirrel.LtOrEq{"reservation_date": to}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByDateRange - build query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByDateRange - scan: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountByDate возвращает количество бронирований на конкретную дату
func (r *Repository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return r.CountByDateRange(ctx, date, date)
}

// CountGrouped возвращает количество бронирований за период, сгруппированное
// по одному из измерений: status, service_type, vehicle_type
func (r *Repository) CountGrouped(ctx context.Context, from, to time.Time, dimension string) (map[string]int64, error) {
	column, ok := groupColumns[dimension]
	if !ok {
		return nil, fmt.Errorf("%w: CountGrouped - unknown dimension %q", ErrBuildQuery, dimension)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(column, "COUNT(*)").
		From("reservations").
		Where(squirrel.GtOrEq{"reservation_date": from}).
		Where(squirrel.LtOrEq{"reservation_date": to}).
		GroupBy(column).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountGrouped - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountGrouped - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("%w: CountGrouped - scan row: %v", ErrScanRow, err)
		}
		counts[key] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountGrouped - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// PaidRevenue возвращает сумму и среднее по оплаченным бронированиям за период.
// Пустая выборка даёт нули, а не ошибку.
func (r *Repository) PaidRevenue(ctx context.Context, from, to time.Time) (sum float64, avg float64, err error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(SUM(price), 0)",
		"COALESCE(AVG(price), 0)",
	).
		From("reservations").
		Where(squirrel.GtOrEq{"reservation_date": from}).
		Where(squirrel.LtOrEq{"reservation_date": to}).
		Where(squirrel.Eq{"payment_status": domain.PaymentPaid}).
		ToSql()

	if err != nil {
		return 0, 0, fmt.Errorf("%w: PaidRevenue - build query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum, &avg); err != nil {
		return 0, 0, fmt.Errorf("%w: PaidRevenue - scan: %v", ErrScanRow, err)
	}

	return sum, avg, nil
}

// DailyCounts возвращает количество бронирований по дням за период.
// Дни без бронирований в выборку не попадают.
func (r *Repository) DailyCounts(ctx context.Context, from, to time.Time) ([]DailyCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("reservation_date", "COUNT(*)").
		From("reservations").
		Where(squirrel.GtOrEq{"reservation_date": from}).
		Where(squirrel.LtOrEq{"reservation_date": to}).
		GroupBy("reservation_date").
		OrderBy("reservation_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DailyCounts - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DailyCounts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]DailyCount, 0)
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("%w: DailyCounts - scan row: %v", ErrScanRow, err)
		}
		counts = append(counts, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: DailyCounts - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// TopCustomers возвращает клиентов с наибольшим числом бронирований за период
func (r *Repository) TopCustomers(ctx context.Context, from, to time.Time, limit uint64) ([]CustomerStat, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"r.customer_id",
		"c.name",
		"COUNT(*) AS reservations",
		"COALESCE(SUM(r.price) FILTER (WHERE r.payment_status = 'paid'), 0) AS total_spend",
	).
		From("reservations r").
		Join("customers c ON c.id = r.customer_id").
		Where(squirrel.GtOrEq{"r.reservation_date": from}).
		Where(squirrel.LtOrEq{"r.reservation_date": to}).
		GroupBy("r.customer_id", "c.name").
		OrderBy("reservations DESC", "total_spend DESC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: TopCustomers - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: TopCustomers - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := make([]CustomerStat, 0)
	for rows.Next() {
		var cs CustomerStat
		if err := rows.Scan(&cs.CustomerID, &cs.CustomerName, &cs.Reservations, &cs.TotalSpend); err != nil {
			return nil, fmt.Errorf("%w: TopCustomers - scan row: %v", ErrScanRow, err)
		}
		stats = append(stats, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: TopCustomers - rows error: %v", ErrScanRow, err)
	}

	return stats, nil
}

// Recent возвращает последние созданные бронирования
func (r *Repository) Recent(ctx context.Context, limit uint64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(selectColumns...).
		From("reservations").
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Recent - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Recent - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanReservations(rows)
}
