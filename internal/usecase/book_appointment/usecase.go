package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/trimtime/booking-service/internal/availability"
	"github.com/trimtime/booking-service/internal/domain"
	scheduleRepo "github.com/trimtime/booking-service/internal/infra/storage/schedule"
	businessClient "github.com/trimtime/booking-service/internal/integrations/businessservice"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	businessClient  BusinessServiceClient
	loyaltyClient   LoyaltyClient
	cache           SlotCacheInvalidator // nil, когда кеш отключен
	txManager       TransactionManager
	codeGenerator   ConfirmationCodeGenerator
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	businessClient BusinessServiceClient,
	loyaltyClient LoyaltyClient,
	cache SlotCacheInvalidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		businessClient:  businessClient,
		loyaltyClient:   loyaltyClient,
		cache:           cache,
		txManager:       txManager,
		codeGenerator:   &UUIDCodeGenerator{},
		logger:          logger,
	}
}

// UUIDCodeGenerator генерирует коды подтверждения на основе UUID v4
type UUIDCodeGenerator struct{}

// NewCode возвращает новый код подтверждения
func (g *UUIDCodeGenerator) NewCode() string {
	return uuid.NewString()
}

// Execute выполняет use case создания записи.
// Проверка занятости слота и вставка выполняются в одной сериализуемой
// транзакции: из двух конкурентных запросов на один слот ровно один
// завершается успехом, второй получает ErrSlotTaken.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: business=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем салон
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			uc.logger.Warn("BookAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("BookAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	service, err := uc.businessClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessClient.ErrServiceNotFound) {
			uc.logger.Warn("BookAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("BookAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Определяем ростер мастеров
	roster, err := resolveRoster(business, service, req.EmployeeID)
	if err != nil {
		uc.logger.Warn("BookAppointment: roster resolution failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// 5. Определяем уровень лояльности клиента
	tier := uc.loyaltyClient.ResolveTier(ctx, req.CustomerID)

	startMinute, err := req.StartTime.MinuteOfDay()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
	}

	var result *domain.Appointment

	// 6. Авторитетная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Действующая конфигурация рабочего окна
		scheduleConfig, err := uc.scheduleRepo.GetEffectiveConfig(txCtx, req.BusinessID, req.EmployeeID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				uc.logger.Warn("BookAppointment: schedule not configured for business=%d", req.BusinessID)
				return ErrScheduleNotConfigured
			}
			uc.logger.Error("BookAppointment: failed to get schedule config: %v", err)
			return fmt.Errorf("%w: failed to get schedule config: %v", ErrInternal, err)
		}

		// 6.2. Время должно попадать в сетку слотов
		if err := validateTimeOnGrid(scheduleConfig.Window, service.DurationMinutes, req.StartTime); err != nil {
			uc.logger.Warn("BookAppointment: time %s is off the slot grid", req.StartTime)
			return err
		}

		// 6.3. Гейт по уровню лояльности с возможным выкупом
		restricted, err := uc.scheduleRepo.GetRestrictedWindows(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get restricted windows: %v", err)
			return fmt.Errorf("%w: failed to get restricted windows: %v", ErrInternal, err)
		}

		bypassFee, err := resolveBypassFee(startMinute, restricted, tier, req.PayBypassFee)
		if err != nil {
			uc.logger.Warn("BookAppointment: tier gate rejected booking at %s for tier=%s", req.StartTime, tier)
			return err
		}

		// 6.4. Активные записи дня с блокировкой FOR UPDATE
		filter := domain.BusinessAppointmentsFilter{
			BusinessID:      req.BusinessID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.5. Повторная проверка занятости слота
		taken, err := availability.SlotTaken(req.StartTime, appointments, roster)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to check slot occupancy: %v", err)
			return fmt.Errorf("%w: failed to check slot occupancy: %v", ErrInternal, err)
		}
		if taken {
			uc.logger.Warn("BookAppointment: slot %s on %s already taken",
				req.StartTime, req.Date.Format(domain.DateFormat))
			return ErrSlotTaken
		}

		// 6.6. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			BusinessID:      req.BusinessID,
			EmployeeID:      req.EmployeeID,
			ServiceID:       req.ServiceID,
			CustomerID:      req.CustomerID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusConfirmed,

			ServiceName:            service.Name,
			ServicePriceMinorUnits: service.PriceMinorUnits,
			CustomerName:           req.CustomerName,
			CustomerPhone:          req.CustomerPhone,

			ConfirmationCode:    uc.codeGenerator.NewCode(),
			BypassFeeMinorUnits: bypassFee,
			Notes:               req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 7. Сбрасываем кеш сеток дня, ошибка кеша запись не ломает
	if uc.cache != nil {
		date := req.Date.Format(domain.DateFormat)
		if err := uc.cache.Invalidate(ctx, req.BusinessID, date); err != nil {
			uc.logger.Warn("BookAppointment: cache invalidation failed: %v", err)
		}
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		BusinessID:      result.BusinessID,
		EmployeeID:      result.EmployeeID,
		ServiceID:       result.ServiceID,
		CustomerID:      result.CustomerID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),

		ServiceName:            result.ServiceName,
		ServicePriceMinorUnits: result.ServicePriceMinorUnits,
		CustomerName:           result.CustomerName,
		CustomerPhone:          result.CustomerPhone,

		ConfirmationCode:    result.ConfirmationCode,
		BypassFeeMinorUnits: result.BypassFeeMinorUnits,
		Notes:               result.Notes,

		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}
