package get_available_slots

import (
	"fmt"

	"github.com/trimtime/booking-service/internal/integrations/businessservice"
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

	return nil
}

// resolveRoster определяет ростер мастеров для расчета занятости.
// Запрошенный мастер должен быть активен в салоне и выполнять услугу,
// иначе ErrEmployeeNotFound. Без мастера ростер - все квалифицированные
// мастера услуги.
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
