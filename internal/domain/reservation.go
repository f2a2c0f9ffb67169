package domain

import (
	"time"

	"github.com/vkarpenko/shine-booking/pkg/types"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// PaymentStatus represents the payment state, independent of the lifecycle status
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefundPending PaymentStatus = "refund_pending"
)

// RefundStatus represents the state of a flagged refund
type RefundStatus string

const (
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
)

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

// Reservation represents a booked time slot for a service
type Reservation struct {
	ID        int64
	Reference string // human-readable, globally unique, assigned once at creation
	CustomerID int64

	ReservationDate time.Time
	StartTime       types.TimeString
	DurationMinutes int

	ServiceType string
	Price       float64 // computed once at creation, never negative

	// Vehicle descriptor, denormalized onto the reservation
	VehicleType      string
	VehicleYear      *int
	VehicleMake      *string
	VehicleModel     *string
	VehicleCondition *string

	Extras []string

	Status        ReservationStatus
	PaymentStatus PaymentStatus
	PaymentMethod *string
	TransactionID *string

	RefundAmount *float64
	RefundStatus *RefundStatus

	Notes *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the reservation occupies its slot
// (cancelled and completed reservations never block a slot)
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal returns true if no further status transitions are accepted
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// CanBeCancelled returns true if the reservation may still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return !r.IsTerminal()
}

// ScheduledAt returns the full timestamp derived from the date and start time.
// A malformed start time degrades to midnight of the reservation date.
func (r *Reservation) ScheduledAt() time.Time {
	minutes, err := r.StartTime.Minutes()
	if err != nil {
		return r.ReservationDate
	}
	d := r.ReservationDate
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, d.Location())
}

// Overlaps reports whether the reservation's occupied interval intersects the
// half-open candidate interval [start, start+durationMinutes). Back-to-back
// intervals do not overlap. Malformed time values on either side count as no
// occupancy rather than failing the check.
func (r *Reservation) Overlaps(start types.TimeString, durationMinutes int) bool {
	candidateEnd, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	if r.StartTime.Validate() != nil {
		return false
	}
	end, err := r.StartTime.AddMinutes(r.DurationMinutes)
	if err != nil {
		return false
	}
	return r.StartTime.IsBefore(candidateEnd) && end.IsAfter(start)
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	StartDate  *time.Time         // Начало периода (опционально)
	EndDate    *time.Time         // Конец периода (опционально)
	Status     *ReservationStatus // Фильтр по статусу (опционально)
	CustomerID *int64             // Фильтр по клиенту (опционально)
	ActiveOnly bool               // Только pending/confirmed (для проверки занятости слотов)
}

// Customer is the loyalty record a completed, paid reservation credits.
// The core only ever increments the two counters.
type Customer struct {
	ID            int64
	Name          string
	Email         string
	Phone         *string
	LoyaltyPoints int
	LifetimeSpend float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LoyaltyPointsFor returns the points earned for a paid amount,
// one point per whole 100 of price (floor semantics).
func LoyaltyPointsFor(price float64) int {
	if price <= 0 {
		return 0
	}
	return int(price / 100)
}
