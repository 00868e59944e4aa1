package book_appointment

import (
	"context"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория конфигурации расписания
type ScheduleRepository interface {
	GetEffectiveConfig(ctx context.Context, businessID int64, employeeID *int64) (*domain.ScheduleConfig, error)
	GetRestrictedWindows(ctx context.Context, businessID int64) ([]domain.RestrictedWindow, error)
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
}

// LoyaltyClient интерфейс клиента сервиса лояльности
type LoyaltyClient interface {
	ResolveTier(ctx context.Context, customerID *int64) domain.Tier
}

// SlotCacheInvalidator интерфейс инвалидации кеша сеток слотов
type SlotCacheInvalidator interface {
	Invalidate(ctx context.Context, businessID int64, date string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConfirmationCodeGenerator генератор кодов подтверждения для публичных записей
type ConfirmationCodeGenerator interface {
	NewCode() string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
