package get_available_slots

import (
	"context"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByBusinessWithFilter получает записи салона по фильтру
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория конфигурации расписания
type ScheduleRepository interface {
	// GetEffectiveConfig получает действующую конфигурацию с учетом приоритета мастера
	GetEffectiveConfig(ctx context.Context, businessID int64, employeeID *int64) (*domain.ScheduleConfig, error)
	// GetRestrictedWindows получает ограниченные окна салона
	GetRestrictedWindows(ctx context.Context, businessID int64) ([]domain.RestrictedWindow, error)
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
}

// LoyaltyClient интерфейс клиента сервиса лояльности
type LoyaltyClient interface {
	// ResolveTier возвращает уровень лояльности клиента; при недоступности
	// сервиса или отсутствии профиля деградирует до standard
	ResolveTier(ctx context.Context, customerID *int64) domain.Tier
}

// SlotCache интерфейс кеша рассчитанных сеток слотов
type SlotCache interface {
	Get(ctx context.Context, businessID int64, date string, serviceID int64, employeeID *int64, tier domain.Tier) ([]domain.Slot, error)
	Set(ctx context.Context, businessID int64, date string, serviceID int64, employeeID *int64, tier domain.Tier, slots []domain.Slot) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
