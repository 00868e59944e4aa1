package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/trimtime/booking-service/internal/domain"
	appointmentRepo "github.com/trimtime/booking-service/internal/infra/storage/appointment"
	businessClient "github.com/trimtime/booking-service/internal/integrations/businessservice"
	"github.com/trimtime/booking-service/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	businessClient  BusinessServiceClient
	cache           SlotCacheInvalidator // nil, когда кеш отключен
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	businessClient BusinessServiceClient,
	cache SlotCacheInvalidator,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		businessClient:  businessClient,
		cache:           cache,
		logger:          logger,
	}
}

// GetByID получает запись по ID.
// Запись видна её клиенту и менеджерам салона.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments получает историю записей клиента.
// Клиент видит только собственную историю.
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, user=%d", req.CustomerID, req.UserID)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerAppointments: user=%d requested history of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for customer=%d",
		len(appointments), req.CustomerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetBusinessAppointments получает записи салона с гибкой фильтрацией.
// Доступно только менеджерам салона.
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBusinessAppointments: fetching appointments for business=%d, user=%d", req.BusinessID, req.UserID)

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAppointments: successfully fetched %d appointments for business=%d",
		len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись с указанием причины.
// Клиент отменяет только собственные записи, менеджер - любые записи салона.
// Отмена освобождает слот, поэтому кеш сеток дня сбрасывается.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for appointment id=%d", appointmentID)
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	if err := s.checkUserAccess(ctx, appt, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
		return err
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if s.cache != nil {
		date := appt.Date.Format(domain.DateFormat)
		if err := s.cache.Invalidate(ctx, appt.BusinessID, date); err != nil {
			s.logger.Warn("Cancel: cache invalidation failed for business=%d date=%s: %v", appt.BusinessID, date, err)
		}
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет доступ пользователя к записи: клиент записи
// или менеджер салона. Публичная запись без аккаунта доступна только менеджеру.
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.CustomerID != nil && *appt.CustomerID == userID {
		return nil
	}

	if err := s.checkManagerAccess(ctx, appt.BusinessID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером салона
func (s *Service) checkManagerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businessClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			s.logger.Warn("checkManagerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get business: %v", ErrInternal, err)
	}

	if business.IsManager(userID) {
		s.logger.Info("checkManagerAccess: user=%d is manager of business=%d", userID, businessID)
		return nil
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of business=%d", userID, businessID)
	return ErrAccessDenied
}
