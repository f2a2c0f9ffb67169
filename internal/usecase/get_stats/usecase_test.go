package get_stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpenko/shine-booking/internal/domain"
	reservationRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/reservation"
)

type fakeStatsRepo struct {
	total   int64
	today   int64
	grouped map[string]map[string]int64
	sum     float64
	avg     float64
	daily   []reservationRepo.DailyCount
	top     []reservationRepo.CustomerStat
	recent  []*domain.Reservation
}

func (f *fakeStatsRepo) CountByDateRange(_ context.Context, _, _ time.Time) (int64, error) {
	return f.total, nil
}

func (f *fakeStatsRepo) CountByDate(_ context.Context, _ time.Time) (int64, error) {
	return f.today, nil
}

func (f *fakeStatsRepo) CountGrouped(_ context.Context, _, _ time.Time, dimension string) (map[string]int64, error) {
	if f.grouped == nil {
		return map[string]int64{}, nil
	}
	return f.grouped[dimension], nil
}

func (f *fakeStatsRepo) PaidRevenue(_ context.Context, _, _ time.Time) (float64, float64, error) {
	return f.sum, f.avg, nil
}

func (f *fakeStatsRepo) DailyCounts(_ context.Context, _, _ time.Time) ([]reservationRepo.DailyCount, error) {
	return f.daily, nil
}

func (f *fakeStatsRepo) TopCustomers(_ context.Context, _, _ time.Time, _ uint64) ([]reservationRepo.CustomerStat, error) {
	return f.top, nil
}

func (f *fakeStatsRepo) Recent(_ context.Context, _ uint64) ([]*domain.Reservation, error) {
	return f.recent, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeStatsRepo) *UseCase {
	uc := NewUseCase(repo, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func TestExecute_PopulatedStore(t *testing.T) {
	repo := &fakeStatsRepo{
		total: 25,
		today: 3,
		grouped: map[string]map[string]int64{
			"status":       {"pending": 10, "confirmed": 8, "completed": 5, "cancelled": 2},
			"service_type": {"full_detail": 15, "express": 10},
			"vehicle_type": {"sedan": 20, "suv": 5},
		},
		sum: 12500,
		avg: 500,
		daily: []reservationRepo.DailyCount{
			{Date: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), Count: 4},
			{Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Count: 3},
		},
		top: []reservationRepo.CustomerStat{
			{CustomerID: 5, CustomerName: "Анна Петрова", Reservations: 6, TotalSpend: 4200},
		},
		recent: []*domain.Reservation{{ID: 99, Reference: "SHN-20260901-1000-A1B2C3"}},
	}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.Equal(t, int64(25), resp.TotalReservations)
	assert.Equal(t, int64(3), resp.TodayReservations)
	assert.Equal(t, int64(10), resp.ByStatus["pending"])
	assert.Equal(t, int64(15), resp.ByServiceType["full_detail"])
	assert.Equal(t, int64(5), resp.ByVehicleType["suv"])
	assert.Equal(t, 12500.0, resp.PaidRevenue)
	assert.Equal(t, 500.0, resp.AverageCheck)
	require.Len(t, resp.DailyCounts, 2)
	assert.Equal(t, int64(4), resp.DailyCounts[0].Count)
	require.Len(t, resp.TopCustomers, 1)
	assert.Equal(t, "Анна Петрова", resp.TopCustomers[0].CustomerName)
	require.Len(t, resp.Recent, 1)
	assert.Equal(t, int64(99), resp.Recent[0].ID)
}

func TestExecute_DefaultPeriod(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{})

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	// По умолчанию: последние 30 дней, заканчивая сегодняшним днём
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), resp.To)
	assert.Equal(t, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), resp.From)
}

func TestExecute_EmptyStoreYieldsZeros(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{})

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.Zero(t, resp.TotalReservations)
	assert.Zero(t, resp.TodayReservations)
	assert.Zero(t, resp.PaidRevenue)
	assert.Zero(t, resp.AverageCheck)
	assert.Empty(t, resp.DailyCounts)
	assert.Empty(t, resp.TopCustomers)
	assert.Empty(t, resp.Recent)
}

func TestExecute_IdempotentOnUnchangedStore(t *testing.T) {
	repo := &fakeStatsRepo{
		total: 7,
		sum:   1500,
		avg:   300,
		grouped: map[string]map[string]int64{
			"status": {"pending": 7},
		},
	}
	uc := newTestUseCase(repo)

	first, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_InvalidPeriod(t *testing.T) {
	uc := newTestUseCase(&fakeStatsRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		From: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
