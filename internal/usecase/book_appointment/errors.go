package book_appointment

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда салон не найден
	ErrBusinessNotFound = errors.New("book_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("book_appointment: service not found")

	// ErrEmployeeNotFound возвращается, когда мастер не найден, неактивен
	// или не выполняет запрошенную услугу
	ErrEmployeeNotFound = errors.New("book_appointment: employee not found")

	// ErrScheduleNotConfigured возвращается, когда у салона нет конфигурации
	// рабочего окна
	ErrScheduleNotConfigured = errors.New("book_appointment: schedule is not configured for business")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов
	ErrInvalidTimeSlot = errors.New("book_appointment: time does not match the slot grid")

	// ErrSlotTaken возвращается при проигрыше гонки за слот: между проверкой
	// и вставкой слот занял параллельный запрос
	ErrSlotTaken = errors.New("book_appointment: slot is already taken")

	// ErrTierRequired возвращается, когда слот закрыт для уровня клиента
	// и выкуп не запрошен или недоступен
	ErrTierRequired = errors.New("book_appointment: slot requires a higher loyalty tier")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
