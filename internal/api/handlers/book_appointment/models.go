package book_appointment

import (
	"time"

	"github.com/trimtime/booking-service/internal/domain"
	bookAppointment "github.com/trimtime/booking-service/internal/usecase/book_appointment"
	"github.com/trimtime/booking-service/pkg/types"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	BusinessID    int64   `json:"businessId"`
	ServiceID     int64   `json:"serviceId"`
	EmployeeID    *int64  `json:"employeeId,omitempty"`
	CustomerID    *int64  `json:"customerId,omitempty"`
	Date          string  `json:"date"` // "2026-09-01"
	Time          string  `json:"time"` // "10:00"
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	PayBypassFee  bool    `json:"payBypassFee,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	EmployeeID      *int64 `json:"employeeId,omitempty"`
	ServiceID       int64  `json:"serviceId"`
	CustomerID      *int64 `json:"customerId,omitempty"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	ServiceName            string  `json:"serviceName"`
	ServicePriceMinorUnits int64   `json:"servicePriceMinorUnits"`
	CustomerName           string  `json:"customerName"`
	CustomerPhone          string  `json:"customerPhone"`
	ConfirmationCode       string  `json:"confirmationCode"`
	BypassFeeMinorUnits    *int64  `json:"bypassFeeMinorUnits,omitempty"`
	Notes                  *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *BookAppointmentRequest) ToUseCaseRequest() (*bookAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		BusinessID:    r.BusinessID,
		ServiceID:     r.ServiceID,
		EmployeeID:    r.EmployeeID,
		CustomerID:    r.CustomerID,
		Date:          date,
		StartTime:     types.TimeString(r.Time),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		PayBypassFee:  r.PayBypassFee,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		EmployeeID:      resp.EmployeeID,
		ServiceID:       resp.ServiceID,
		CustomerID:      resp.CustomerID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,

		ServiceName:            resp.ServiceName,
		ServicePriceMinorUnits: resp.ServicePriceMinorUnits,
		CustomerName:           resp.CustomerName,
		CustomerPhone:          resp.CustomerPhone,
		ConfirmationCode:       resp.ConfirmationCode,
		BypassFeeMinorUnits:    resp.BypassFeeMinorUnits,
		Notes:                  resp.Notes,

		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}
}
