package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/internal/integrations/pricing"
	"github.com/vkarpenko/shine-booking/pkg/ptr"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	reservationRepo ReservationRepository
	pricingClient   PricingClient
	timeProvider    TimeProvider
	settings        Settings
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	pricingClient PricingClient,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		pricingClient:   pricingClient,
		timeProvider:    &RealTimeProvider{},
		settings:        settings,
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов.
// Сетка строится от времени открытия с шагом гранулярности; стартовые
// времена, при которых услуга не успевает завершиться до закрытия,
// в сетку не попадают. Занятость считается по активным бронированиям дня.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, service=%s",
		req.Date.Format(domain.DateFormat), req.ServiceType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем описание услуги — длительность определяет сетку
	service, err := uc.pricingClient.GetService(ctx, req.ServiceType)
	if err != nil {
		if errors.Is(err, pricing.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service type %q not found", req.ServiceType)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service %q: %v", req.ServiceType, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:            req.Date,
		ServiceType:     req.ServiceType,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// 3. На прошедшие даты слотов нет
	if isDateInPast(req.Date, uc.timeProvider.Now()) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past, no slots",
			req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 4. Строим сетку стартовых времен дня
	grid := domain.SlotGrid(
		uc.settings.OpenTime,
		uc.settings.CloseTime,
		uc.settings.GranularityMinutes,
		service.DurationMinutes,
	)

	// 5. Активные бронирования дня
	filter := domain.ReservationsFilter{
		StartDate:  ptr.Ptr(req.Date),
		EndDate:    ptr.Ptr(req.Date),
		ActiveOnly: true,
	}

	existing, err := uc.reservationRepo.GetWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	// 6. Размечаем занятость каждого слота
	available := 0
	for _, start := range grid {
		ok := domain.IsSlotBookable(start, service.DurationMinutes, existing, uc.settings.LegacyExactMatch)
		if ok {
			available++
		}
		resp.Slots = append(resp.Slots, Slot{StartTime: start, Available: ok})
	}

	uc.logger.Info("GetAvailableSlots: date=%s, candidates=%d, available=%d",
		req.Date.Format(domain.DateFormat), len(grid), available)

	return resp, nil
}
