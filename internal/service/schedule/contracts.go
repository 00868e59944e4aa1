package schedule

import (
	"context"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
)

// ScheduleRepository интерфейс репозитория конфигурации расписания
type ScheduleRepository interface {
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.ScheduleConfig, error)
	GetRestrictedWindows(ctx context.Context, businessID int64) ([]domain.RestrictedWindow, error)
	ReplaceForBusiness(ctx context.Context, businessID int64, configs []*domain.ScheduleConfig, windows []domain.RestrictedWindow) error
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
