package models

import (
	"errors"
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе бронирования
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidPaymentStatus возвращается при некорректном статусе оплаты
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// UpdatePaymentStatusRequest запрос на обновление оплаты
type UpdatePaymentStatusRequest struct {
	PaymentStatus string  `json:"paymentStatus"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	TransactionID *string `json:"transactionId,omitempty"`
}

// CancelReservationRequest запрос на отмену бронирования
type CancelReservationRequest struct {
	Reason       *string  `json:"reason,omitempty"`
	RefundAmount *float64 `json:"refundAmount,omitempty"`
}

// ListReservationsRequest запрос на получение списка бронирований с фильтрацией
type ListReservationsRequest struct {
	StartDate  *time.Time `json:"startDate,omitempty"`  // Начало периода (опционально)
	EndDate    *time.Time `json:"endDate,omitempty"`    // Конец периода (опционально)
	Status     *string    `json:"status,omitempty"`     // Фильтр по статусу (опционально)
	CustomerID *int64     `json:"customerId,omitempty"` // Фильтр по клиенту (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	filter := domain.ReservationsFilter{
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		CustomerID: r.CustomerID,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64  `json:"id"`
	Reference       string `json:"reference"`
	CustomerID      int64  `json:"customerId"`
	Date            string `json:"date"`      // "2025-10-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`

	ServiceType string  `json:"serviceType"`
	Price       float64 `json:"price"`

	VehicleType      string   `json:"vehicleType"`
	VehicleYear      *int     `json:"vehicleYear,omitempty"`
	VehicleMake      *string  `json:"vehicleMake,omitempty"`
	VehicleModel     *string  `json:"vehicleModel,omitempty"`
	VehicleCondition *string  `json:"vehicleCondition,omitempty"`
	Extras           []string `json:"extras"`

	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	TransactionID *string `json:"transactionId,omitempty"`

	RefundAmount *float64 `json:"refundAmount,omitempty"`
	RefundStatus *string  `json:"refundStatus,omitempty"`

	Notes *string `json:"notes,omitempty"`

	CancelledAt *string   `json:"cancelledAt,omitempty"` // ISO 8601 format
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:               r.ID,
		Reference:        r.Reference,
		CustomerID:       r.CustomerID,
		Date:             r.ReservationDate.Format(domain.DateFormat),
		StartTime:        r.StartTime.String(),
		DurationMinutes:  r.DurationMinutes,
		ServiceType:      r.ServiceType,
		Price:            r.Price,
		VehicleType:      r.VehicleType,
		VehicleYear:      r.VehicleYear,
		VehicleMake:      r.VehicleMake,
		VehicleModel:     r.VehicleModel,
		VehicleCondition: r.VehicleCondition,
		Extras:           r.Extras,
		Status:           string(r.Status),
		PaymentStatus:    string(r.PaymentStatus),
		PaymentMethod:    r.PaymentMethod,
		TransactionID:    r.TransactionID,
		RefundAmount:     r.RefundAmount,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	if r.Extras == nil {
		resp.Extras = []string{}
	}

	if r.RefundStatus != nil {
		refundStatus := string(*r.RefundStatus)
		resp.RefundStatus = &refundStatus
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, len(reservations)),
	}

	for i, r := range reservations {
		if converted := FromDomainReservation(r); converted != nil {
			resp.Reservations[i] = *converted
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !domain.ValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToDomainPaymentStatus конвертирует строку в domain.PaymentStatus с валидацией
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)
	if !domain.ValidPaymentStatus(s) {
		return "", ErrInvalidPaymentStatus
	}
	return s, nil
}
