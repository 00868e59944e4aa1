package get_available_slots

import (
	"time"

	"github.com/trimtime/booking-service/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID салона
	ServiceID  int64     // ID услуги
	EmployeeID *int64    // ID конкретного мастера (опционально)
	CustomerID *int64    // ID клиента для определения уровня лояльности (опционально)
	Date       time.Time // Дата, на которую запрашивается сетка (без времени)
}

// Response модель ответа со слотами дня
type Response struct {
	BusinessID int64
	ServiceID  int64
	EmployeeID *int64
	Date       time.Time
	Tier       domain.Tier   // Уровень, для которого рассчитана сетка
	Slots      []domain.Slot // Полная сетка дня, включая занятые и закрытые слоты
}
