package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/pkg/types"
)

// validateRequest валидирует входные данные запроса.
// Все отсутствующие/некорректные обязательные поля перечисляются в ошибке.
func validateRequest(req *Request) error {
	var problems []string

	if strings.TrimSpace(req.CustomerName) == "" {
		problems = append(problems, "customerName is required")
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" {
		problems = append(problems, "customerEmail is required")
	} else if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		problems = append(problems, "customerEmail is malformed")
	}

	if req.Date.IsZero() {
		problems = append(problems, "date is required")
	}

	if req.StartTime.IsZero() {
		problems = append(problems, "startTime is required")
	} else if err := req.StartTime.Validate(); err != nil {
		problems = append(problems, "startTime must be 24-hour HH:MM")
	}

	if strings.TrimSpace(req.ServiceType) == "" {
		problems = append(problems, "serviceType is required")
	}

	if strings.TrimSpace(req.VehicleType) == "" {
		problems = append(problems, "vehicleType is required")
	}

	if !domain.ValidPaymentMethod(domain.PaymentMethod(req.PaymentMethod)) {
		problems = append(problems, "paymentMethod must be card or cash")
	}

	if len(req.Extras) > domain.MaxExtras {
		problems = append(problems, fmt.Sprintf("at most %d extras allowed", domain.MaxExtras))
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		problems = append(problems, fmt.Sprintf("notes must not exceed %d characters", domain.MaxNotesLength))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(date, now time.Time) error {
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}
	return nil
}

// validateSlotOnGrid проверяет, что время начала лежит в сетке слотов дня
// и услуга успевает завершиться до закрытия
func validateSlotOnGrid(start types.TimeString, durationMinutes int, settings Settings) error {
	grid := domain.SlotGrid(settings.OpenTime, settings.CloseTime, settings.GranularityMinutes, durationMinutes)
	for _, candidate := range grid {
		if candidate == start {
			return nil
		}
	}
	return ErrInvalidTimeSlot
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
