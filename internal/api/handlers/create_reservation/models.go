package create_reservation

import (
	"time"

	"github.com/vkarpenko/shine-booking/internal/domain"
	createReservation "github.com/vkarpenko/shine-booking/internal/usecase/create_reservation"
	"github.com/vkarpenko/shine-booking/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`

	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"

	ServiceType string `json:"serviceType"`
	VehicleType string `json:"vehicleType"`

	VehicleYear      *int    `json:"vehicleYear,omitempty"`
	VehicleMake      *string `json:"vehicleMake,omitempty"`
	VehicleModel     *string `json:"vehicleModel,omitempty"`
	VehicleCondition *string `json:"vehicleCondition,omitempty"`

	Extras        []string `json:"extras,omitempty"`
	PaymentMethod string   `json:"paymentMethod"`
	Notes         *string  `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		CustomerName:     r.CustomerName,
		CustomerEmail:    r.CustomerEmail,
		CustomerPhone:    r.CustomerPhone,
		Date:             date,
		StartTime:        startTime,
		ServiceType:      r.ServiceType,
		VehicleType:      r.VehicleType,
		VehicleYear:      r.VehicleYear,
		VehicleMake:      r.VehicleMake,
		VehicleModel:     r.VehicleModel,
		VehicleCondition: r.VehicleCondition,
		Extras:           r.Extras,
		PaymentMethod:    r.PaymentMethod,
		Notes:            r.Notes,
	}, nil
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	ID              int64    `json:"id"`
	Reference       string   `json:"reference"`
	CustomerID      int64    `json:"customerId"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	ServiceType     string   `json:"serviceType"`
	VehicleType     string   `json:"vehicleType"`
	Extras          []string `json:"extras"`
	Price           float64  `json:"price"`
	Status          string   `json:"status"`
	PaymentStatus   string   `json:"paymentStatus"`
	Notes           *string  `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	extras := resp.Extras
	if extras == nil {
		extras = []string{}
	}

	return &CreateReservationResponse{
		ID:              resp.ID,
		Reference:       resp.Reference,
		CustomerID:      resp.CustomerID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		ServiceType:     resp.ServiceType,
		VehicleType:     resp.VehicleType,
		Extras:          extras,
		Price:           resp.Price,
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt,
	}
}
