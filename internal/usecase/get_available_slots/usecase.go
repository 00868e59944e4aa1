package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/trimtime/booking-service/internal/availability"
	"github.com/trimtime/booking-service/internal/domain"
	scheduleRepo "github.com/trimtime/booking-service/internal/infra/storage/schedule"
	businessClient "github.com/trimtime/booking-service/internal/integrations/businessservice"
)

// UseCase use case для получения доступных слотов дня
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	businessClient  BusinessServiceClient
	loyaltyClient   LoyaltyClient
	slotCache       SlotCache // nil, когда кеш отключен
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	businessClient BusinessServiceClient,
	loyaltyClient LoyaltyClient,
	slotCache SlotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		businessClient:  businessClient,
		loyaltyClient:   loyaltyClient,
		slotCache:       slotCache,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем салон
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем услугу
	service, err := uc.businessClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Определяем ростер мастеров
	roster, err := resolveRoster(business, service, req.EmployeeID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: roster resolution failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// 5. Определяем уровень лояльности клиента
	tier := uc.loyaltyClient.ResolveTier(ctx, req.CustomerID)

	date := req.Date.Format(domain.DateFormat)

	// 6. Пробуем взять сетку из кеша. Промах и ошибка кеша равнозначны -
	// сетка пересчитывается.
	if uc.slotCache != nil {
		cached, err := uc.slotCache.Get(ctx, req.BusinessID, date, req.ServiceID, req.EmployeeID, tier)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: cache get failed: %v", err)
		} else if cached != nil {
			uc.logger.Info("GetAvailableSlots: cache hit for business=%d, date=%s", req.BusinessID, date)
			return uc.buildResponse(req, tier, cached), nil
		}
	}

	// 7. Получаем действующую конфигурацию рабочего окна. Отсутствие
	// конфигурации - ошибка клиенту, а не тихие дефолтные часы.
	scheduleConfig, err := uc.scheduleRepo.GetEffectiveConfig(ctx, req.BusinessID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GetAvailableSlots: schedule not configured for business=%d", req.BusinessID)
			return nil, ErrScheduleNotConfigured
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule config: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule config: %v", ErrInternal, err)
	}

	// 8. Получаем ограниченные окна
	restricted, err := uc.scheduleRepo.GetRestrictedWindows(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get restricted windows: %v", err)
		return nil, fmt.Errorf("%w: failed to get restricted windows: %v", ErrInternal, err)
	}

	// 9. Получаем все активные записи салона на дату. Фильтра по мастеру
	// нет намеренно: запись без мастера блокирует весь ростер.
	filter := domain.BusinessAppointmentsFilter{
		BusinessID:      req.BusinessID,
		StartDate:       &req.Date,
		EndDate:         &req.Date,
		IncludeInactive: false,
	}

	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 10. Строим сетку слотов
	slots, err := availability.Resolve(
		scheduleConfig.Window,
		restricted,
		appointments,
		roster,
		service.DurationMinutes,
		tier,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve slots: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve slots: %v", ErrInternal, err)
	}

	// 11. Сохраняем сетку в кеш, ошибка кеша результат не ломает
	if uc.slotCache != nil {
		if err := uc.slotCache.Set(ctx, req.BusinessID, date, req.ServiceID, req.EmployeeID, tier, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: resolved %d slots for business=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.ServiceID, date)

	return uc.buildResponse(req, tier, slots), nil
}

func (uc *UseCase) buildResponse(req *Request, tier domain.Tier, slots []domain.Slot) *Response {
	return &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Tier:       tier,
		Slots:      slots,
	}
}
