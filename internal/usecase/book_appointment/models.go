package book_appointment

import (
	"time"

	"github.com/trimtime/booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID int64            // ID салона
	ServiceID  int64            // ID услуги
	EmployeeID *int64           // ID мастера; nil - любой свободный мастер
	CustomerID *int64           // ID клиента; nil - публичная запись без аккаунта
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")

	CustomerName  string // Имя клиента
	CustomerPhone string // Телефон клиента

	// PayBypassFee клиент согласен выкупить слот в ограниченном окне
	PayBypassFee bool

	Notes *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	BusinessID      int64
	EmployeeID      *int64
	ServiceID       int64
	CustomerID      *int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          string

	ServiceName            string
	ServicePriceMinorUnits int64
	CustomerName           string
	CustomerPhone          string

	// ConfirmationCode выдается для управления записью без аккаунта
	ConfirmationCode string

	// BypassFeeMinorUnits не nil, когда слот в ограниченном окне был выкуплен
	BypassFeeMinorUnits *int64

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
