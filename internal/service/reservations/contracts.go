package reservations

import (
	"context"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/internal/service/events"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByReference(ctx context.Context, reference string) (*domain.Reservation, error)
	GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, notes *string) error
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, method, transactionID *string) error
	SetRefund(ctx context.Context, id int64, amount float64) error
	Cancel(ctx context.Context, id int64, notes *string) error
}

// CustomerRepository интерфейс репозитория клиентов (программа лояльности)
type CustomerRepository interface {
	IncrementLoyalty(ctx context.Context, id int64, points int) error
	IncrementSpend(ctx context.Context, id int64, amount float64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.ReservationEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
