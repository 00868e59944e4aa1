package get_available_slots

import (
	"time"

	"github.com/trimtime/booking-service/internal/domain"
	getAvailableSlots "github.com/trimtime/booking-service/internal/usecase/get_available_slots"
)

// SlotItem модель слота в HTTP ответе
type SlotItem struct {
	Time                string  `json:"time"`
	Available           bool    `json:"available"`
	RestrictedToTier    *string `json:"restrictedToTier,omitempty"`
	BypassFeeMinorUnits *int64  `json:"bypassFeeMinorUnits,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) []SlotItem {
	slots := make([]SlotItem, len(resp.Slots))
	for i, slot := range resp.Slots {
		item := SlotItem{
			Time:                slot.Time.String(),
			Available:           slot.Available,
			BypassFeeMinorUnits: slot.BypassFeeMinorUnits,
		}
		if slot.RestrictedToTier != nil {
			tier := string(*slot.RestrictedToTier)
			item.RestrictedToTier = &tier
		}
		slots[i] = item
	}
	return slots
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(businessID, serviceID int64, employeeID, customerID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		EmployeeID: employeeID,
		CustomerID: customerID,
		Date:       date,
	}, nil
}
