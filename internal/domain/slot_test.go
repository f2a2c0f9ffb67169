package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpenko/shine-booking/pkg/types"
)

func active(start types.TimeString, duration int, status ReservationStatus) *Reservation {
	return &Reservation{StartTime: start, DurationMinutes: duration, Status: status}
}

func TestSlotGrid(t *testing.T) {
	tests := []struct {
		name        string
		open, close types.TimeString
		granularity int
		duration    int
		wantCount   int
		wantFirst   types.TimeString
		wantLast    types.TimeString
	}{
		{
			// 20 раз по полчаса в [08:00, 18:00); услуга в час не успевает
			// завершиться со стартов 17:00 и 17:30
			name: "hour service on half-hour grid",
			open: "08:00", close: "18:00", granularity: 30, duration: 60,
			wantCount: 18, wantFirst: "08:00", wantLast: "16:30",
		},
		{
			name: "duration equals granularity",
			open: "08:00", close: "18:00", granularity: 30, duration: 30,
			wantCount: 19, wantFirst: "08:00", wantLast: "17:00",
		},
		{
			name: "duration longer than window",
			open: "08:00", close: "10:00", granularity: 30, duration: 180,
			wantCount: 0,
		},
		{
			name: "single fitting slot",
			open: "08:00", close: "09:30", granularity: 60, duration: 60,
			wantCount: 1, wantFirst: "08:00", wantLast: "08:00",
		},
		{
			name: "zero granularity",
			open: "08:00", close: "18:00", granularity: 0, duration: 60,
			wantCount: 0,
		},
		{
			name: "malformed open time",
			open: "8:00", close: "18:00", granularity: 30, duration: 60,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := SlotGrid(tt.open, tt.close, tt.granularity, tt.duration)
			require.Len(t, grid, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, grid[0])
				assert.Equal(t, tt.wantLast, grid[len(grid)-1])
			}
		})
	}
}

func TestSlotGrid_NoSlotEndsAtOrAfterClosing(t *testing.T) {
	grid := SlotGrid("08:00", "18:00", 15, 45)
	for _, start := range grid {
		end, err := start.AddMinutes(45)
		require.NoError(t, err)
		assert.True(t, end.IsBefore("18:00"), "slot %s ends at %s", start, end)
	}
}

func TestCountSlotConflicts_IntervalOverlap(t *testing.T) {
	// Занят интервал [09:00, 10:00)
	existing := []*Reservation{active("09:00", 60, StatusPending)}

	tests := []struct {
		name     string
		start    types.TimeString
		duration int
		want     int
	}{
		{name: "same start", start: "09:00", duration: 60, want: 1},
		{name: "candidate overlaps tail", start: "09:30", duration: 60, want: 1},
		{name: "candidate overlaps head", start: "08:30", duration: 60, want: 1},
		{name: "candidate swallows existing", start: "08:30", duration: 180, want: 1},
		{name: "back-to-back before", start: "08:00", duration: 60, want: 0},
		{name: "back-to-back after", start: "10:00", duration: 60, want: 0},
		{name: "far away", start: "14:00", duration: 60, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountSlotConflicts(tt.start, tt.duration, existing, false)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountSlotConflicts_LegacyExactMatch(t *testing.T) {
	existing := []*Reservation{active("09:00", 60, StatusConfirmed)}

	// Только точное совпадение старта считается конфликтом
	assert.Equal(t, 1, CountSlotConflicts("09:00", 60, existing, true))
	assert.Equal(t, 0, CountSlotConflicts("09:30", 60, existing, true))
	assert.Equal(t, 0, CountSlotConflicts("08:30", 60, existing, true))
}

func TestCountSlotConflicts_InactiveDoNotBlock(t *testing.T) {
	existing := []*Reservation{
		active("09:00", 60, StatusCancelled),
		active("09:00", 60, StatusCompleted),
		nil,
	}

	assert.Equal(t, 0, CountSlotConflicts("09:00", 60, existing, false))
	assert.Equal(t, 0, CountSlotConflicts("09:00", 60, existing, true))
}

func TestIsSlotBookable_ExistingSetScenario(t *testing.T) {
	// Сценарий дня: одно активное бронирование на 09:00 длительностью час.
	// Сетка 08:00-18:00 с шагом 30 минут даёт 18 кандидатов для часовой
	// услуги; при интервальной проверке недоступны 08:30, 09:00 и 09:30.
	existing := []*Reservation{active("09:00", 60, StatusPending)}
	grid := SlotGrid("08:00", "18:00", 30, 60)
	require.Len(t, grid, 18)

	bookableInterval := 0
	bookableLegacy := 0
	for _, start := range grid {
		if IsSlotBookable(start, 60, existing, false) {
			bookableInterval++
		}
		if IsSlotBookable(start, 60, existing, true) {
			bookableLegacy++
		}
	}

	assert.Equal(t, 15, bookableInterval)
	// Legacy режим блокирует только точное совпадение: 18 - 1 = 17
	assert.Equal(t, 17, bookableLegacy)

	assert.False(t, IsSlotBookable("09:00", 60, existing, false))
	assert.False(t, IsSlotBookable("08:30", 60, existing, false))
	assert.False(t, IsSlotBookable("09:30", 60, existing, false))
	assert.True(t, IsSlotBookable("08:00", 60, existing, false))
	assert.True(t, IsSlotBookable("10:00", 60, existing, false))

	assert.False(t, IsSlotBookable("09:00", 60, existing, true))
	assert.True(t, IsSlotBookable("08:30", 60, existing, true))
	assert.True(t, IsSlotBookable("09:30", 60, existing, true))
}
