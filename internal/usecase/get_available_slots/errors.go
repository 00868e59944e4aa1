package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда салон не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrEmployeeNotFound возвращается, когда мастер не найден, неактивен
	// или не выполняет запрошенную услугу
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrScheduleNotConfigured возвращается, когда у салона нет конфигурации
	// рабочего окна. Дефолтные часы не подставляются.
	ErrScheduleNotConfigured = errors.New("schedule is not configured for business")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
