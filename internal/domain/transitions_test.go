package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ReservationStatus
		to   ReservationStatus
		want bool
	}{
		{name: "pending to confirmed", from: StatusPending, to: StatusConfirmed, want: true},
		{name: "pending to completed", from: StatusPending, to: StatusCompleted, want: true},
		{name: "pending to cancelled", from: StatusPending, to: StatusCancelled, want: true},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, want: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, want: true},
		{name: "confirmed back to pending", from: StatusConfirmed, to: StatusPending, want: false},
		{name: "completed to cancelled", from: StatusCompleted, to: StatusCancelled, want: false},
		{name: "completed back to confirmed", from: StatusCompleted, to: StatusConfirmed, want: false},
		{name: "cancelled to confirmed", from: StatusCancelled, to: StatusConfirmed, want: false},
		{name: "cancelled to completed", from: StatusCancelled, to: StatusCompleted, want: false},
		{name: "same state pending", from: StatusPending, to: StatusPending, want: true},
		{name: "same state completed", from: StatusCompleted, to: StatusCompleted, want: true},
		{name: "same state cancelled", from: StatusCancelled, to: StatusCancelled, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusConfirmed))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("in_progress"))
	assert.False(t, ValidStatus(""))
}

func TestValidPaymentStatus(t *testing.T) {
	assert.True(t, ValidPaymentStatus(PaymentPending))
	assert.True(t, ValidPaymentStatus(PaymentPaid))
	assert.True(t, ValidPaymentStatus(PaymentRefundPending))
	assert.False(t, ValidPaymentStatus("refunded"))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodCard))
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.False(t, ValidPaymentMethod("crypto"))
}
