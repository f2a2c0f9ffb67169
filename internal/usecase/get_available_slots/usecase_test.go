package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/internal/integrations/pricing"
)

type fakeReservationRepo struct {
	existing []*domain.Reservation
}

func (f *fakeReservationRepo) GetWithFilter(_ context.Context, _ domain.ReservationsFilter) ([]*domain.Reservation, error) {
	return f.existing, nil
}

type fakePricing struct {
	service    *pricing.Service
	serviceErr error
}

func (f *fakePricing) GetService(_ context.Context, _ string) (*pricing.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestUseCase(existing []*domain.Reservation, legacy bool) *UseCase {
	uc := NewUseCase(
		&fakeReservationRepo{existing: existing},
		&fakePricing{service: &pricing.Service{Type: "full_detail", DurationMinutes: 60}},
		Settings{OpenTime: "08:00", CloseTime: "18:00", GranularityMinutes: 30, LegacyExactMatch: legacy},
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func availableCount(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.Available {
			n++
		}
	}
	return n
}

func TestExecute_EmptyDay(t *testing.T) {
	uc := newTestUseCase(nil, false)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:        testNow.AddDate(0, 0, 1),
		ServiceType: "full_detail",
	})
	require.NoError(t, err)

	// Часовая услуга на получасовой сетке: 20 стартов минус два последних
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 18)
	assert.Equal(t, 18, availableCount(resp.Slots))
	assert.Equal(t, "08:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "16:30", resp.Slots[len(resp.Slots)-1].StartTime.String())
}

func TestExecute_OccupiedSlotsMarked(t *testing.T) {
	existing := []*domain.Reservation{
		{StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusPending},
	}
	uc := newTestUseCase(existing, false)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:        testNow.AddDate(0, 0, 1),
		ServiceType: "full_detail",
	})
	require.NoError(t, err)

	// Интервальная проверка блокирует 08:30, 09:00 и 09:30
	require.Len(t, resp.Slots, 18)
	assert.Equal(t, 15, availableCount(resp.Slots))

	byStart := map[string]bool{}
	for _, s := range resp.Slots {
		byStart[s.StartTime.String()] = s.Available
	}
	assert.False(t, byStart["08:30"])
	assert.False(t, byStart["09:00"])
	assert.False(t, byStart["09:30"])
	assert.True(t, byStart["08:00"])
	assert.True(t, byStart["10:00"])
}

func TestExecute_LegacyExactMatchMode(t *testing.T) {
	existing := []*domain.Reservation{
		{StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusPending},
	}
	uc := newTestUseCase(existing, true)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:        testNow.AddDate(0, 0, 1),
		ServiceType: "full_detail",
	})
	require.NoError(t, err)

	// Legacy режим блокирует только точное совпадение старта: 18 - 1 = 17
	assert.Equal(t, 17, availableCount(resp.Slots))
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	existing := []*domain.Reservation{
		{StartTime: "09:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}
	uc := newTestUseCase(existing, false)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:        testNow.AddDate(0, 0, 1),
		ServiceType: "full_detail",
	})
	require.NoError(t, err)
	assert.Equal(t, 18, availableCount(resp.Slots))
}

func TestExecute_PastDateYieldsNoSlots(t *testing.T) {
	uc := newTestUseCase(nil, false)

	resp, err := uc.Execute(context.Background(), &Request{
		Date:        testNow.AddDate(0, 0, -1),
		ServiceType: "full_detail",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := NewUseCase(
		&fakeReservationRepo{},
		&fakePricing{serviceErr: pricing.ErrServiceNotFound},
		Settings{OpenTime: "08:00", CloseTime: "18:00", GranularityMinutes: 30},
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: testNow}

	_, err := uc.Execute(context.Background(), &Request{
		Date:        testNow.AddDate(0, 0, 1),
		ServiceType: "unknown",
	})
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_MissingFields(t *testing.T) {
	uc := newTestUseCase(nil, false)

	_, err := uc.Execute(context.Background(), &Request{ServiceType: "full_detail"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Date: testNow})
	require.ErrorIs(t, err, ErrInvalidInput)
}
