package list_reservations

import (
	"strconv"
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
	"github.com/vkarpenko/shine-booking/internal/service/reservations/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров.
// Все фильтры опциональны.
func ToServiceRequest(fromStr, toStr, status, customerIDStr string) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &to
	}

	if status != "" {
		req.Status = &status
	}

	if customerIDStr != "" {
		customerID, err := strconv.ParseInt(customerIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.CustomerID = &customerID
	}

	return req, nil
}
