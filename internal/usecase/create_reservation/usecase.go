package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/internal/integrations/pricing"
	customerRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/customer"
	reservationRepo "github.com/vkarpenko/shine-booking/internal/infra/storage/reservation"
	"github.com/vkarpenko/shine-booking/internal/service/events"
	"github.com/vkarpenko/shine-booking/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	customerRepo    CustomerRepository
	pricingClient   PricingClient
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	settings        Settings
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	customerRepo CustomerRepository,
	pricingClient PricingClient,
	txManager TransactionManager,
	publisher EventPublisher,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		customerRepo:    customerRepo,
		pricingClient:   pricingClient,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		settings:        settings,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости слота и запись выполняются в сериализуемой транзакции;
// частичный уникальный индекс (date, start_time) в БД остаётся последним
// рубежом против гонки двух конкурентных запросов на один слот.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: email=%s, date=%s, time=%s, service=%s",
		req.CustomerEmail, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем дату
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateReservation: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, err
	}

	// 4. Получаем описание услуги из каталога — длительность определяет
	// окно конфликта и допустимые стартовые слоты
	service, err := uc.pricingClient.GetService(ctx, req.ServiceType)
	if err != nil {
		if errors.Is(err, pricing.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service type %q not found", req.ServiceType)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get service %q: %v", req.ServiceType, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Проверяем, что слот лежит в сетке и услуга завершится до закрытия
	if err := validateSlotOnGrid(req.StartTime, service.DurationMinutes, uc.settings); err != nil {
		uc.logger.Warn("CreateReservation: slot %s does not fit the grid for duration=%d",
			req.StartTime, service.DurationMinutes)
		return nil, err
	}

	// 6. Рассчитываем стоимость — формула на стороне прайсинг-сервиса,
	// результат фиксируется в бронировании навсегда
	quote, err := uc.pricingClient.GetQuote(ctx, &pricing.QuoteRequest{
		ServiceType: req.ServiceType,
		VehicleType: req.VehicleType,
		Extras:      req.Extras,
		Condition:   req.VehicleCondition,
	})
	if err != nil {
		if errors.Is(err, pricing.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get quote: %v", err)
		return nil, fmt.Errorf("%w: failed to get quote: %v", ErrInternal, err)
	}

	// 7. Resolve-or-create клиента по email. Намеренно вне сериализуемой
	// транзакции: гонка здесь даёт максимум дубликат lookup'а, который
	// разрешается уникальным индексом по email
	customer, err := uc.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	var result *domain.Reservation

	// 8. Проверка занятости и запись — в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Активные бронирования дня с блокировкой (FOR UPDATE)
		filter := domain.ReservationsFilter{
			StartDate:  ptr.Ptr(req.Date),
			EndDate:    ptr.Ptr(req.Date),
			ActiveOnly: true,
		}

		existing, err := uc.reservationRepo.GetWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get existing reservations: %v", err)
			return fmt.Errorf("%w: failed to get existing reservations: %v", ErrInternal, err)
		}

		// 8.2. Проверяем доступность слота
		if !domain.IsSlotBookable(req.StartTime, service.DurationMinutes, existing, uc.settings.LegacyExactMatch) {
			uc.logger.Warn("CreateReservation: slot %s on %s already taken",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotTaken
		}

		// 8.3. Собираем бронирование
		res := &domain.Reservation{
			Reference:        generateReference(uc.settings.ReferencePrefix, req.Date, req.StartTime),
			CustomerID:       customer.ID,
			ReservationDate:  req.Date,
			StartTime:        req.StartTime,
			DurationMinutes:  service.DurationMinutes,
			ServiceType:      req.ServiceType,
			Price:            quote.Amount,
			VehicleType:      req.VehicleType,
			VehicleYear:      req.VehicleYear,
			VehicleMake:      req.VehicleMake,
			VehicleModel:     req.VehicleModel,
			VehicleCondition: req.VehicleCondition,
			Extras:           req.Extras,
			Status:           domain.StatusPending,
			PaymentStatus:    domain.PaymentPending,
			PaymentMethod:    ptr.Ptr(req.PaymentMethod),
			Notes:            req.Notes,
		}

		// 8.4. Сохраняем. Нарушение уникального индекса слота — проигранная
		// гонка, отдаём тот же ErrSlotTaken, что и при проверке заранее
		created, err := uc.reservationRepo.Create(txCtx, res)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateReservation: lost slot race for %s %s",
					req.Date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d reference=%s", result.ID, result.Reference)

	// 9. Событие — best effort, ошибки публикации не роняют запрос
	_ = uc.publisher.Publish(ctx, events.ReservationEvent{
		Type:          events.TypeReservationCreated,
		ReservationID: result.ID,
		Reference:     result.Reference,
		CustomerID:    result.CustomerID,
		Date:          result.ReservationDate.Format(domain.DateFormat),
		StartTime:     result.StartTime.String(),
		ServiceType:   result.ServiceType,
		Status:        string(result.Status),
		PaymentStatus: string(result.PaymentStatus),
		Price:         result.Price,
		OccurredAt:    now.UTC().Format(time.RFC3339),
	})

	return &Response{
		ID:              result.ID,
		Reference:       result.Reference,
		CustomerID:      result.CustomerID,
		Date:            result.ReservationDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		ServiceType:     result.ServiceType,
		VehicleType:     result.VehicleType,
		Extras:          result.Extras,
		Price:           result.Price,
		Status:          string(result.Status),
		PaymentStatus:   string(result.PaymentStatus),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
	}, nil
}

// resolveCustomer находит клиента по email или создает нового.
// Проигранную гонку создания разрешает повторным lookup'ом.
func (uc *UseCase) resolveCustomer(ctx context.Context, req *Request) (*domain.Customer, error) {
	customer, err := uc.customerRepo.GetByEmail(ctx, req.CustomerEmail)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
		uc.logger.Error("CreateReservation: failed to lookup customer: %v", err)
		return nil, fmt.Errorf("%w: failed to lookup customer: %v", ErrInternal, err)
	}

	created, err := uc.customerRepo.Create(ctx, &domain.Customer{
		Name:  req.CustomerName,
		Email: req.CustomerEmail,
		Phone: req.CustomerPhone,
	})
	if err == nil {
		uc.logger.Info("CreateReservation: created customer id=%d", created.ID)
		return created, nil
	}
	if errors.Is(err, customerRepo.ErrDuplicateEmail) {
		// Конкурентный запрос успел создать клиента первым
		return uc.customerRepo.GetByEmail(ctx, req.CustomerEmail)
	}

	uc.logger.Error("CreateReservation: failed to create customer: %v", err)
	return nil, fmt.Errorf("%w: failed to create customer: %v", ErrInternal, err)
}
