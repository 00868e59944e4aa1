package models

import (
	"errors"
	"time"

	"github.com/trimtime/booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetCustomerAppointmentsRequest запрос на получение истории записей клиента
type GetCustomerAppointmentsRequest struct {
	UserID     int64   `json:"userId"`
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetBusinessAppointmentsRequest запрос на получение записей салона
type GetBusinessAppointmentsRequest struct {
	UserID          int64      `json:"userId"`
	BusinessID      int64      `json:"businessId"`
	EmployeeID      *int64     `json:"employeeId,omitempty"`      // Фильтр по мастеру (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершенные и отмененные записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessAppointmentsRequest) ToDomainFilter() (domain.BusinessAppointmentsFilter, error) {
	filter := domain.BusinessAppointmentsFilter{
		BusinessID:      r.BusinessID,
		EmployeeID:      r.EmployeeID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	EmployeeID      *int64 `json:"employeeId,omitempty"`
	ServiceID       int64  `json:"serviceId"`
	CustomerID      *int64 `json:"customerId,omitempty"`
	Date            string `json:"date"`      // "2026-09-01"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName            string  `json:"serviceName"`
	ServicePriceMinorUnits int64   `json:"servicePriceMinorUnits"`
	CustomerName           string  `json:"customerName"`
	CustomerPhone          string  `json:"customerPhone"`
	BypassFeeMinorUnits    *int64  `json:"bypassFeeMinorUnits,omitempty"`
	Notes                  *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		EmployeeID:      a.EmployeeID,
		ServiceID:       a.ServiceID,
		CustomerID:      a.CustomerID,
		Date:            a.Date.Format(domain.DateFormat),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),

		ServiceName:            a.ServiceName,
		ServicePriceMinorUnits: a.ServicePriceMinorUnits,
		CustomerName:           a.CustomerName,
		CustomerPhone:          a.CustomerPhone,
		BypassFeeMinorUnits:    a.BypassFeeMinorUnits,
		Notes:                  a.Notes,

		CancellationReason: a.CancellationReason,

		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	list := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		list = append(list, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: list}
}

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(s string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(s) {
	case domain.StatusPending:
		return domain.StatusPending, nil
	case domain.StatusConfirmed:
		return domain.StatusConfirmed, nil
	case domain.StatusCompleted:
		return domain.StatusCompleted, nil
	case domain.StatusCancelled:
		return domain.StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
