package models

import (
	"github.com/trimtime/booking-service/internal/domain"
)

// Request модели

// OperatingWindowPayload рабочее окно в запросе/ответе
type OperatingWindowPayload struct {
	StartHour           int `json:"startHour"`
	EndHour             int `json:"endHour"`
	SlotIntervalMinutes int `json:"slotIntervalMinutes"`
}

// EmployeeOverridePayload персональное рабочее окно мастера
type EmployeeOverridePayload struct {
	EmployeeID int64                  `json:"employeeId"`
	Window     OperatingWindowPayload `json:"window"`
}

// RestrictedWindowPayload ограниченное окно в запросе/ответе
type RestrictedWindowPayload struct {
	StartMinuteOfDay    int    `json:"startMinuteOfDay"`
	EndMinuteOfDay      int    `json:"endMinuteOfDay"`
	RequiredTier        string `json:"requiredTier"`
	BypassFeeMinorUnits *int64 `json:"bypassFeeMinorUnits,omitempty"`
}

// UpdateScheduleRequest запрос на замену расписания салона
type UpdateScheduleRequest struct {
	UserID            int64                     `json:"userId"`
	BusinessID        int64                     `json:"businessId"`
	Window            OperatingWindowPayload    `json:"window"`
	EmployeeOverrides []EmployeeOverridePayload `json:"employeeOverrides,omitempty"`
	RestrictedWindows []RestrictedWindowPayload `json:"restrictedWindows,omitempty"`
}

// Response модели

// ScheduleResponse ответ с действующим расписанием салона
type ScheduleResponse struct {
	BusinessID        int64                     `json:"businessId"`
	Window            OperatingWindowPayload    `json:"window"`
	EmployeeOverrides []EmployeeOverridePayload `json:"employeeOverrides"`
	RestrictedWindows []RestrictedWindowPayload `json:"restrictedWindows"`
}

// Методы конвертации

// ToDomainWindow конвертирует payload в domain модель
func (p OperatingWindowPayload) ToDomainWindow() domain.OperatingWindow {
	return domain.OperatingWindow{
		StartHour:           p.StartHour,
		EndHour:             p.EndHour,
		SlotIntervalMinutes: p.SlotIntervalMinutes,
	}
}

// FromDomainWindow конвертирует domain модель в payload
func FromDomainWindow(w domain.OperatingWindow) OperatingWindowPayload {
	return OperatingWindowPayload{
		StartHour:           w.StartHour,
		EndHour:             w.EndHour,
		SlotIntervalMinutes: w.SlotIntervalMinutes,
	}
}

// ToDomainRestrictedWindow конвертирует payload в domain модель
func (p RestrictedWindowPayload) ToDomainRestrictedWindow(businessID int64) (domain.RestrictedWindow, error) {
	tier, err := domain.ParseTier(p.RequiredTier)
	if err != nil {
		return domain.RestrictedWindow{}, err
	}

	return domain.RestrictedWindow{
		BusinessID:          businessID,
		StartMinuteOfDay:    p.StartMinuteOfDay,
		EndMinuteOfDay:      p.EndMinuteOfDay,
		RequiredTier:        tier,
		BypassFeeMinorUnits: p.BypassFeeMinorUnits,
	}, nil
}

// FromDomainRestrictedWindow конвертирует domain модель в payload
func FromDomainRestrictedWindow(rw domain.RestrictedWindow) RestrictedWindowPayload {
	return RestrictedWindowPayload{
		StartMinuteOfDay:    rw.StartMinuteOfDay,
		EndMinuteOfDay:      rw.EndMinuteOfDay,
		RequiredTier:        string(rw.RequiredTier),
		BypassFeeMinorUnits: rw.BypassFeeMinorUnits,
	}
}

// BuildScheduleResponse собирает ответ из конфигураций и ограниченных окон
func BuildScheduleResponse(businessID int64, configs []*domain.ScheduleConfig, windows []domain.RestrictedWindow) *ScheduleResponse {
	resp := &ScheduleResponse{
		BusinessID:        businessID,
		EmployeeOverrides: make([]EmployeeOverridePayload, 0),
		RestrictedWindows: make([]RestrictedWindowPayload, 0, len(windows)),
	}

	for _, cfg := range configs {
		if cfg.IsBusinessWide() {
			resp.Window = FromDomainWindow(cfg.Window)
			continue
		}
		resp.EmployeeOverrides = append(resp.EmployeeOverrides, EmployeeOverridePayload{
			EmployeeID: *cfg.EmployeeID,
			Window:     FromDomainWindow(cfg.Window),
		})
	}

	for _, rw := range windows {
		resp.RestrictedWindows = append(resp.RestrictedWindows, FromDomainRestrictedWindow(rw))
	}

	return resp
}
