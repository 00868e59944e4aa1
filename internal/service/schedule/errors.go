package schedule

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда салон не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrScheduleNotConfigured возвращается, когда у салона нет конфигурации
	ErrScheduleNotConfigured = errors.New("schedule is not configured for business")

	// ErrEmployeeNotFound возвращается, когда мастер из конфигурации
	// не найден в салоне
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
