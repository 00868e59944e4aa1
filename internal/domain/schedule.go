package domain

import (
	"time"
)

// OperatingWindow is the bookable range of a business day:
// slots start at StartHour:00 and step by SlotIntervalMinutes.
type OperatingWindow struct {
	StartHour           int // 0-23
	EndHour             int // 1-24, строго больше StartHour
	SlotIntervalMinutes int
}

// StartMinute возвращает начало окна в минутах с начала дня
func (w OperatingWindow) StartMinute() int {
	return w.StartHour * 60
}

// EndMinute возвращает конец окна в минутах с начала дня
func (w OperatingWindow) EndMinute() int {
	return w.EndHour * 60
}

// Validate проверяет инварианты окна: границы в сутках, start < end,
// интервал делит час нацело либо кратен часу
func (w OperatingWindow) Validate() error {
	if w.StartHour < MinOperatingHour || w.StartHour >= MaxOperatingHour {
		return ErrInvalidOperatingWindow
	}
	if w.EndHour <= w.StartHour || w.EndHour > MaxOperatingHour {
		return ErrInvalidOperatingWindow
	}
	if w.SlotIntervalMinutes < MinSlotIntervalMinutes || w.SlotIntervalMinutes > MaxSlotIntervalMinutes {
		return ErrInvalidOperatingWindow
	}
	if 60%w.SlotIntervalMinutes != 0 && w.SlotIntervalMinutes%60 != 0 {
		return ErrInvalidOperatingWindow
	}
	return nil
}

// RestrictedWindow is a sub-range of the operating window reserved
// for customers at or above RequiredTier. A non-qualifying customer may
// book inside it only by paying BypassFeeMinorUnits (when configured).
type RestrictedWindow struct {
	ID                  int64
	BusinessID          int64
	StartMinuteOfDay    int
	EndMinuteOfDay      int
	RequiredTier        Tier
	BypassFeeMinorUnits *int64
}

// ContainsMinute проверяет попадание минуты дня в окно [start, end)
func (rw RestrictedWindow) ContainsMinute(minuteOfDay int) bool {
	return minuteOfDay >= rw.StartMinuteOfDay && minuteOfDay < rw.EndMinuteOfDay
}

// WithinOperatingWindow проверяет, что ограниченное окно целиком
// лежит внутри рабочего окна
func (rw RestrictedWindow) WithinOperatingWindow(w OperatingWindow) bool {
	return rw.StartMinuteOfDay >= w.StartMinute() && rw.EndMinuteOfDay <= w.EndMinute()
}

// Validate проверяет инварианты ограниченного окна
func (rw RestrictedWindow) Validate() error {
	if rw.StartMinuteOfDay < 0 || rw.EndMinuteOfDay > 24*60 {
		return ErrInvalidRestrictedWindow
	}
	if rw.StartMinuteOfDay >= rw.EndMinuteOfDay {
		return ErrInvalidRestrictedWindow
	}
	if !rw.RequiredTier.Valid() {
		return ErrInvalidRestrictedWindow
	}
	if rw.BypassFeeMinorUnits != nil && *rw.BypassFeeMinorUnits <= 0 {
		return ErrInvalidRestrictedWindow
	}
	return nil
}

// ScheduleConfig represents the booking schedule of a business.
// Supports two-level configuration: an employee-specific row
// (business_id, employee_id) overrides the business-wide row
// (business_id, NULL).
type ScheduleConfig struct {
	ID         int64
	BusinessID int64
	EmployeeID *int64 // NULL = расписание всего салона
	Window     OperatingWindow
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsBusinessWide returns true if the config applies to the whole business
func (c *ScheduleConfig) IsBusinessWide() bool {
	return c.EmployeeID == nil
}

// IsEmployeeSpecific returns true if the config is for a single employee
func (c *ScheduleConfig) IsEmployeeSpecific() bool {
	return c.EmployeeID != nil
}
