package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_IsActive(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).IsActive())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Reservation{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Reservation{Status: StatusCancelled}).IsActive())
}

func TestReservation_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCancelled}).CanBeCancelled())
}

func TestReservation_Overlaps(t *testing.T) {
	// Занят интервал [10:00, 11:30)
	r := &Reservation{StartTime: "10:00", DurationMinutes: 90}

	assert.True(t, r.Overlaps("10:00", 30))
	assert.True(t, r.Overlaps("11:00", 60))
	assert.True(t, r.Overlaps("09:30", 60))
	assert.True(t, r.Overlaps("09:00", 300))

	// Полуоткрытые интервалы: встык не пересекаются
	assert.False(t, r.Overlaps("11:30", 60))
	assert.False(t, r.Overlaps("09:00", 60))

	// Битые данные не блокируют
	broken := &Reservation{StartTime: "bad", DurationMinutes: 60}
	assert.False(t, broken.Overlaps("10:00", 60))
}

func TestReservation_ScheduledAt(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	r := &Reservation{ReservationDate: date, StartTime: "10:30"}

	assert.Equal(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC), r.ScheduledAt())

	// Некорректное время деградирует в полночь
	broken := &Reservation{ReservationDate: date, StartTime: "xx:yy"}
	assert.Equal(t, date, broken.ScheduledAt())
}

func TestLoyaltyPointsFor(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  int
	}{
		{name: "floor semantics", price: 1050, want: 10},
		{name: "just below threshold", price: 99.99, want: 0},
		{name: "exact hundred", price: 100, want: 1},
		{name: "zero", price: 0, want: 0},
		{name: "negative", price: -50, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoyaltyPointsFor(tt.price))
		})
	}
}
