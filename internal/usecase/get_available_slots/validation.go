package get_available_slots

import (
	"fmt"
	"strings"
	"time"
)

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	var problems []string

	if req.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if strings.TrimSpace(req.ServiceType) == "" {
		problems = append(problems, "serviceType is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня (сам день не в прошлом)
func isDateInPast(date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return day.Before(today)
}
