package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
	reservationRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/reservation"
	"github.com/vkarpenko/shine-booking/internal/service/events"
	"github.com/vkarpenko/shine-booking/internal/service/reservations/models"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	reservationRepo ReservationRepository
	customerRepo    CustomerRepository
	txManager       TransactionManager
	publisher       EventPublisher
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	customerRepo CustomerRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		customerRepo:    customerRepo,
		txManager:       txManager,
		publisher:       publisher,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d", id)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(res), nil
}

// GetByReference получает бронирование по человекочитаемому референсу
func (s *Service) GetByReference(ctx context.Context, reference string) (*models.ReservationResponse, error) {
	s.logger.Info("GetByReference: fetching reservation reference=%s", reference)

	res, err := s.reservationRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByReference: reservation reference=%s not found", reference)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByReference: repository error for reference=%s: %v", reference, err)
		return nil, fmt.Errorf("%w: GetByReference - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(res), nil
}

// List получает бронирования с гибкой фильтрацией по периоду, статусу и клиенту
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := "List: fetching reservations"
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.CustomerID != nil {
		logMsg += fmt.Sprintf(", customer=%d", *req.CustomerID)
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d reservations", len(reservations))
	return models.FromDomainReservationList(reservations), nil
}

// UpdateStatus переводит бронирование в новый статус по таблице переходов.
// Переход в completed при оплаченном бронировании начисляет клиенту баллы
// лояльности (1 балл за каждые полные 100 стоимости) и сумму в lifetime spend.
// Начисление привязано к фактической смене статуса: повторный вызов с тем же
// статусом ничего не начислит.
func (s *Service) UpdateStatus(ctx context.Context, reservationID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating reservation id=%d to status=%s", reservationID, req.Status)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", req.Status, reservationID)
		return fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var current *domain.Reservation

	// Чтение, проверка перехода и побочные эффекты — в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("UpdateStatus: reservation id=%d not found", reservationID)
				return ErrReservationNotFound
			}
			s.logger.Error("UpdateStatus: repository error for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
		current = res

		if !domain.CanTransition(res.Status, newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s rejected for reservation id=%d",
				res.Status, newStatus, reservationID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, newStatus)
		}

		if err := s.reservationRepo.UpdateStatus(txCtx, reservationID, newStatus, req.Notes); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			s.logger.Error("UpdateStatus: failed to update reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		// Начисляем лояльность только при фактическом переходе в completed
		// оплаченного бронирования
		if newStatus == domain.StatusCompleted && res.Status != domain.StatusCompleted &&
			res.PaymentStatus == domain.PaymentPaid {
			points := domain.LoyaltyPointsFor(res.Price)

			if err := s.customerRepo.IncrementLoyalty(txCtx, res.CustomerID, points); err != nil {
				s.logger.Error("UpdateStatus: failed to credit %d points to customer id=%d: %v",
					points, res.CustomerID, err)
				return fmt.Errorf("%w: UpdateStatus - loyalty credit: %v", ErrInternal, err)
			}
			if err := s.customerRepo.IncrementSpend(txCtx, res.CustomerID, res.Price); err != nil {
				s.logger.Error("UpdateStatus: failed to credit spend %.2f to customer id=%d: %v",
					res.Price, res.CustomerID, err)
				return fmt.Errorf("%w: UpdateStatus - spend credit: %v", ErrInternal, err)
			}

			s.logger.Info("UpdateStatus: credited %d points and %.2f spend to customer id=%d",
				points, res.Price, res.CustomerID)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("UpdateStatus: successfully updated reservation id=%d to status=%s", reservationID, newStatus)

	// Событие — best effort
	_ = s.publisher.Publish(ctx, events.ReservationEvent{
		Type:          events.TypeReservationStatusChanged,
		ReservationID: current.ID,
		Reference:     current.Reference,
		CustomerID:    current.CustomerID,
		Date:          current.ReservationDate.Format(domain.DateFormat),
		StartTime:     current.StartTime.String(),
		ServiceType:   current.ServiceType,
		Status:        string(newStatus),
		PaymentStatus: string(current.PaymentStatus),
		Price:         current.Price,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return nil
}

// UpdatePaymentStatus обновляет платёжные поля бронирования.
// Оплата (paid) бронирования в статусе pending автоматически подтверждает его.
// Платёжная ось работает и на терминальных статусах: отменённое, но оплаченное
// бронирование можно перевести в refund_pending.
func (s *Service) UpdatePaymentStatus(ctx context.Context, reservationID int64, req *models.UpdatePaymentStatusRequest) error {
	s.logger.Info("UpdatePaymentStatus: updating reservation id=%d to payment=%s", reservationID, req.PaymentStatus)

	newPayment, err := models.ToDomainPaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid payment status=%s for reservation id=%d",
			req.PaymentStatus, reservationID)
		return fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, req.PaymentStatus)
	}

	if req.PaymentMethod != nil && !domain.ValidPaymentMethod(domain.PaymentMethod(*req.PaymentMethod)) {
		s.logger.Warn("UpdatePaymentStatus: invalid payment method=%s for reservation id=%d",
			*req.PaymentMethod, reservationID)
		return fmt.Errorf("%w: invalid payment method %q", ErrInvalidInput, *req.PaymentMethod)
	}

	var current *domain.Reservation
	autoConfirmed := false

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("UpdatePaymentStatus: reservation id=%d not found", reservationID)
				return ErrReservationNotFound
			}
			s.logger.Error("UpdatePaymentStatus: repository error for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
		}
		current = res

		if err := s.reservationRepo.UpdatePayment(txCtx, reservationID, newPayment, req.PaymentMethod, req.TransactionID); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			s.logger.Error("UpdatePaymentStatus: failed to update reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: UpdatePaymentStatus - repository error: %v", ErrInternal, err)
		}

		// Оплата неподтверждённого бронирования подтверждает его автоматически.
		// Повторная оплата уже подтверждённого статус не трогает.
		if newPayment == domain.PaymentPaid && res.Status == domain.StatusPending {
			if err := s.reservationRepo.UpdateStatus(txCtx, reservationID, domain.StatusConfirmed, nil); err != nil {
				s.logger.Error("UpdatePaymentStatus: failed to auto-confirm reservation id=%d: %v", reservationID, err)
				return fmt.Errorf("%w: UpdatePaymentStatus - auto-confirm: %v", ErrInternal, err)
			}
			autoConfirmed = true
		}

		return nil
	})

	if err != nil {
		return err
	}

	status := current.Status
	if autoConfirmed {
		status = domain.StatusConfirmed
		s.logger.Info("UpdatePaymentStatus: auto-confirmed reservation id=%d after payment", reservationID)
	}
	s.logger.Info("UpdatePaymentStatus: successfully updated reservation id=%d to payment=%s", reservationID, newPayment)

	_ = s.publisher.Publish(ctx, events.ReservationEvent{
		Type:          events.TypeReservationStatusChanged,
		ReservationID: current.ID,
		Reference:     current.Reference,
		CustomerID:    current.CustomerID,
		Date:          current.ReservationDate.Format(domain.DateFormat),
		StartTime:     current.StartTime.String(),
		ServiceType:   current.ServiceType,
		Status:        string(status),
		PaymentStatus: string(newPayment),
		Price:         current.Price,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return nil
}

// Cancel отменяет бронирование.
// Терминальные статусы (completed, cancelled) отмене не подлежат. Причина
// дописывается к заметкам. Если указана сумма возврата и бронирование
// оплачено, оно помечается на возврат средств (refund_status=pending).
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d", reservationID)

	var current *domain.Reservation

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByID(txCtx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
				return ErrReservationNotFound
			}
			s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		current = res

		if !res.CanBeCancelled() {
			s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s", reservationID, res.Status)
			return fmt.Errorf("%w: status=%s", ErrCannotCancel, res.Status)
		}

		notes := appendCancelReason(res.Notes, req.Reason)

		if err := s.reservationRepo.Cancel(txCtx, reservationID, notes); err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			s.logger.Error("Cancel: failed to cancel reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Возврат помечаем только для оплаченных бронирований
		if req.RefundAmount != nil && res.PaymentStatus == domain.PaymentPaid {
			if err := s.reservationRepo.SetRefund(txCtx, reservationID, *req.RefundAmount); err != nil {
				s.logger.Error("Cancel: failed to flag refund for reservation id=%d: %v", reservationID, err)
				return fmt.Errorf("%w: Cancel - refund flag: %v", ErrInternal, err)
			}
			s.logger.Info("Cancel: flagged refund %.2f for reservation id=%d", *req.RefundAmount, reservationID)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)

	_ = s.publisher.Publish(ctx, events.ReservationEvent{
		Type:          events.TypeReservationCancelled,
		ReservationID: current.ID,
		Reference:     current.Reference,
		CustomerID:    current.CustomerID,
		Date:          current.ReservationDate.Format(domain.DateFormat),
		StartTime:     current.StartTime.String(),
		ServiceType:   current.ServiceType,
		Status:        string(domain.StatusCancelled),
		PaymentStatus: string(current.PaymentStatus),
		Price:         current.Price,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return nil
}

// appendCancelReason дописывает причину отмены к существующим заметкам.
// Без причины заметки остаются нетронутыми (nil — не обновлять).
func appendCancelReason(notes *string, reason *string) *string {
	if reason == nil || *reason == "" {
		return nil
	}
	combined := "Причина отмены: " + *reason
	if notes != nil && *notes != "" {
		combined = *notes + "\n" + combined
	}
	return &combined
}
