package book_appointment

import (
	"fmt"
	"strings"

	"github.com/trimtime/booking-service/internal/availability"
	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/internal/integrations/businessservice"
	"github.com/trimtime/booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.CustomerID != nil && *req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if len(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if len(req.CustomerPhone) > domain.MaxCustomerPhoneLength {
		return fmt.Errorf("%w: customerPhone exceeds %d characters", ErrInvalidInput, domain.MaxCustomerPhoneLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// resolveRoster определяет ростер мастеров для проверки занятости слота
func resolveRoster(business *businessservice.Business, service *businessservice.Service, employeeID *int64) ([]int64, error) {
	if employeeID == nil {
		return service.QualifiedRoster(business), nil
	}

	if !business.HasEmployee(*employeeID) {
		return nil, ErrEmployeeNotFound
	}

	for _, id := range service.EmployeeIDs {
		if id == *employeeID {
			return []int64{*employeeID}, nil
		}
	}

	return nil, ErrEmployeeNotFound
}

// validateTimeOnGrid проверяет, что запрошенное время попадает в сетку слотов
func validateTimeOnGrid(window domain.OperatingWindow, durationMinutes int, startTime types.TimeString) error {
	grid, err := availability.Grid(window, durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}

	for _, t := range grid {
		if t == startTime {
			return nil
		}
	}

	return ErrInvalidTimeSlot
}

// resolveBypassFee применяет гейт по уровню лояльности к запрошенному слоту.
// Возвращает размер платы за выкуп, когда слот закрыт и клиент ниже уровня,
// но согласился заплатить и окно предлагает выкуп.
func resolveBypassFee(
	startMinute int,
	restricted []domain.RestrictedWindow,
	tier domain.Tier,
	payBypassFee bool,
) (*int64, error) {
	rw := availability.BlockingRestriction(startMinute, restricted, tier)
	if rw == nil {
		return nil, nil
	}

	if !payBypassFee || rw.BypassFeeMinorUnits == nil {
		return nil, ErrTierRequired
	}

	fee := *rw.BypassFeeMinorUnits
	return &fee, nil
}
