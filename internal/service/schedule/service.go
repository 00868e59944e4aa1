package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/trimtime/booking-service/internal/domain"
	businessClient "github.com/trimtime/booking-service/internal/integrations/businessservice"
	"github.com/trimtime/booking-service/internal/service/schedule/models"
	"github.com/trimtime/booking-service/pkg/ptr"
)

// Service сервис для работы с расписанием салона
type Service struct {
	scheduleRepo   ScheduleRepository
	businessClient BusinessServiceClient
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	businessClient BusinessServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:   scheduleRepo,
		businessClient: businessClient,
		txManager:      txManager,
		logger:         logger,
	}
}

// Get возвращает действующее расписание салона: общесалонное окно,
// персональные окна мастеров и ограниченные окна. Публичный метод.
func (s *Service) Get(ctx context.Context, businessID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for business=%d", businessID)

	configs, err := s.scheduleRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("Get: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	hasBusinessWide := false
	for _, cfg := range configs {
		if cfg.IsBusinessWide() {
			hasBusinessWide = true
			break
		}
	}
	if !hasBusinessWide {
		s.logger.Warn("Get: schedule not configured for business=%d", businessID)
		return nil, ErrScheduleNotConfigured
	}

	windows, err := s.scheduleRepo.GetRestrictedWindows(ctx, businessID)
	if err != nil {
		s.logger.Error("Get: failed to get restricted windows for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched schedule for business=%d, configs=%d, windows=%d",
		businessID, len(configs), len(windows))
	return models.BuildScheduleResponse(businessID, configs, windows), nil
}

// Update атомарно заменяет расписание салона: общесалонное окно,
// персональные окна мастеров и ограниченные окна.
// Доступно только менеджерам салона.
func (s *Service) Update(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule for business=%d by user=%d", req.BusinessID, req.UserID)

	// 1. Получаем салон для проверки прав и мастеров
	business, err := s.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			s.logger.Warn("Update: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 2. Проверяем права доступа (только менеджер салона)
	if !business.IsManager(req.UserID) {
		s.logger.Warn("Update: user=%d is not a manager of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// 3. Валидируем и собираем domain модели
	configs, windows, err := s.buildDomainSchedule(business, req)
	if err != nil {
		s.logger.Warn("Update: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// 4. Заменяем расписание в транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.ReplaceForBusiness(txCtx, req.BusinessID, configs, windows); err != nil {
			s.logger.Error("Update: repository error for business=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated schedule for business=%d, configs=%d, windows=%d",
		req.BusinessID, len(configs), len(windows))
	return models.BuildScheduleResponse(req.BusinessID, configs, windows), nil
}

// buildDomainSchedule валидирует запрос и собирает domain модели расписания
func (s *Service) buildDomainSchedule(
	business *businessClient.Business,
	req *models.UpdateScheduleRequest,
) ([]*domain.ScheduleConfig, []domain.RestrictedWindow, error) {
	businessWindow := req.Window.ToDomainWindow()
	if err := businessWindow.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	configs := make([]*domain.ScheduleConfig, 0, 1+len(req.EmployeeOverrides))
	configs = append(configs, &domain.ScheduleConfig{
		BusinessID: req.BusinessID,
		Window:     businessWindow,
	})

	seen := make(map[int64]struct{}, len(req.EmployeeOverrides))
	for _, override := range req.EmployeeOverrides {
		if !business.HasEmployee(override.EmployeeID) {
			return nil, nil, ErrEmployeeNotFound
		}
		if _, ok := seen[override.EmployeeID]; ok {
			return nil, nil, fmt.Errorf("%w: duplicate override for employee %d", ErrInvalidInput, override.EmployeeID)
		}
		seen[override.EmployeeID] = struct{}{}

		window := override.Window.ToDomainWindow()
		if err := window.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: employee %d: %v", ErrInvalidInput, override.EmployeeID, err)
		}

		configs = append(configs, &domain.ScheduleConfig{
			BusinessID: req.BusinessID,
			EmployeeID: ptr.Ptr(override.EmployeeID),
			Window:     window,
		})
	}

	windows := make([]domain.RestrictedWindow, 0, len(req.RestrictedWindows))
	for _, payload := range req.RestrictedWindows {
		rw, err := payload.ToDomainRestrictedWindow(req.BusinessID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := rw.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		// Ограниченное окно не может выходить за рабочее окно салона
		if !rw.WithinOperatingWindow(businessWindow) {
			return nil, nil, fmt.Errorf("%w: restricted window is outside the operating window", ErrInvalidInput)
		}
		windows = append(windows, rw)
	}

	return configs, windows, nil
}
