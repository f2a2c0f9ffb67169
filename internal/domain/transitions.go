package domain

// statusTransitions is the explicit edge table for the lifecycle state machine.
// Terminal states have no outgoing edges; same-state updates are treated as
// no-ops by CanTransition rather than listed here.
var statusTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether moving from one status to another is legal.
// A same-state "transition" is always allowed so that repeated updates stay
// idempotent (e.g. a second payment callback on an already confirmed reservation).
func CanTransition(from, to ReservationStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range statusTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s ReservationStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefundPending:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCard || m == PaymentMethodCash
}
