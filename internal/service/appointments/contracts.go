package appointments

import (
	"context"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
}

// SlotCacheInvalidator интерфейс инвалидации кеша сеток слотов
type SlotCacheInvalidator interface {
	Invalidate(ctx context.Context, businessID int64, date string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
