package domain

import (
	"time"

	"github.com/trimtime/booking-service/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked salon visit
type Appointment struct {
	ID         int64
	BusinessID int64
	EmployeeID *int64 // NULL = любой свободный мастер
	ServiceID  int64
	CustomerID *int64 // NULL = публичная запись без аккаунта

	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized data for history
	ServiceName            string
	ServicePriceMinorUnits int64
	CustomerName           string
	CustomerPhone          string

	// ConfirmationCode выдается публичным записям вместо аккаунта
	ConfirmationCode string

	// BypassFeeMinorUnits заполняется, когда клиент ниже требуемого уровня
	// оплатил доступ к ограниченному окну
	BypassFeeMinorUnits *int64

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the appointment blocks its time slot
func (a *Appointment) OccupiesSlot() bool {
	for _, s := range ActiveStatuses {
		if a.Status == s {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// BusinessAppointmentsFilter фильтр для получения записей бизнеса
type BusinessAppointmentsFilter struct {
	BusinessID      int64              // Обязательный параметр
	EmployeeID      *int64             // Фильтр по мастеру (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли завершенные и отмененные записи
}
