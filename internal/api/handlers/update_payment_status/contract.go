package update_payment_status

import (
	"context"

	"github.com/vkarpenko/shine-booking/internal/service/reservations/models"
)

type ReservationService interface {
	UpdatePaymentStatus(ctx context.Context, reservationID int64, req *models.UpdatePaymentStatusRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
