// Package availability содержит единственную авторитетную копию правил
// построения сетки слотов, разрешения занятости по ростеру мастеров и
// гейтинга по уровню лояльности. И usecase чтения слотов, и usecase
// создания записи используют эти функции - дублирования логики нет.
package availability

import (
	"errors"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/pkg/types"
)

var (
	// ErrInvalidDuration возвращается при длительности услуги
	// вне допустимых доменных границ
	ErrInvalidDuration = errors.New("availability: service duration out of range")

	// ErrInvalidSlotInterval возвращается при неположительном шаге сетки
	ErrInvalidSlotInterval = errors.New("availability: slot interval must be positive")
)

// Resolve строит упорядоченную по времени сетку слотов дня и для каждого
// слота определяет доступность и ограничение по уровню лояльности.
//
// Чистая функция: не читает внешние данные и не имеет побочных эффектов,
// безопасна при конкурентных вызовах. Результат рекомендательный - между
// вычислением и отправкой записи слот может занять параллельный запрос,
// авторитетная проверка повторяется в транзакции создания записи.
func Resolve(
	window domain.OperatingWindow,
	restricted []domain.RestrictedWindow,
	appointments []*domain.Appointment,
	roster []int64,
	durationMinutes int,
	requestingTier domain.Tier,
) ([]domain.Slot, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	grid, err := Grid(window, durationMinutes)
	if err != nil {
		return nil, err
	}

	rosterSet := toRosterSet(roster)

	slots := make([]domain.Slot, 0, len(grid))
	for _, start := range grid {
		minute, err := start.MinuteOfDay()
		if err != nil {
			return nil, err
		}

		slot := domain.Slot{Time: start, Available: true}

		if occupied(minute, appointments, rosterSet) {
			slot.Available = false
			slots = append(slots, slot)
			continue
		}

		// Гейт по уровню применяется только к свободным слотам
		if rw := BlockingRestriction(minute, restricted, requestingTier); rw != nil {
			slot.Available = false
			tier := rw.RequiredTier
			slot.RestrictedToTier = &tier
			if rw.BypassFeeMinorUnits != nil {
				fee := *rw.BypassFeeMinorUnits
				slot.BypassFeeMinorUnits = &fee
			}
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

// Grid генерирует все кандидатные времена начала: от StartHour:00 с шагом
// интервала, строго раньше EndHour:00, при условии что окончание услуги
// не выходит за конец рабочего окна. Точное попадание в конец окна
// (start + duration == EndHour:00) включается.
func Grid(window domain.OperatingWindow, durationMinutes int) ([]types.TimeString, error) {
	if durationMinutes < domain.MinDurationMinutes || durationMinutes > domain.MaxDurationMinutes {
		return nil, ErrInvalidDuration
	}
	// Окно приходит из БД и могло миновать доменную валидацию:
	// нулевой шаг зациклил бы обход сетки
	if window.SlotIntervalMinutes <= 0 {
		return nil, ErrInvalidSlotInterval
	}

	grid := make([]types.TimeString, 0)
	endMinute := window.EndMinute()

	for minute := window.StartMinute(); minute < endMinute; minute += window.SlotIntervalMinutes {
		if minute+durationMinutes > endMinute {
			break
		}
		start, err := types.NewTimeStringFromMinutes(minute)
		if err != nil {
			return nil, err
		}
		grid = append(grid, start)
	}

	return grid, nil
}

// SlotTaken авторитетная проверка занятости одного слота: используется
// usecase-ом создания записи внутри сериализуемой транзакции.
func SlotTaken(start types.TimeString, appointments []*domain.Appointment, roster []int64) (bool, error) {
	minute, err := start.MinuteOfDay()
	if err != nil {
		return false, err
	}
	return occupied(minute, appointments, toRosterSet(roster)), nil
}

// BlockingRestriction возвращает ограниченное окно, закрывающее минуту дня
// для данного уровня клиента. nil - слот клиенту доступен.
func BlockingRestriction(minuteOfDay int, restricted []domain.RestrictedWindow, tier domain.Tier) *domain.RestrictedWindow {
	for i := range restricted {
		rw := restricted[i]
		if rw.ContainsMinute(minuteOfDay) && !tier.Meets(rw.RequiredTier) {
			return &rw
		}
	}
	return nil
}

// occupied слот занят, когда свободного мастера из ростера не осталось.
// Запись без мастера консервативно занимает слот против всего ростера:
// неизвестно, кого из мастеров она займет. Пустой ростер означает, что
// выполнять услугу некому - все слоты заняты.
func occupied(slotMinute int, appointments []*domain.Appointment, roster map[int64]struct{}) bool {
	if len(roster) == 0 {
		return true
	}

	busy := make(map[int64]struct{}, len(roster))
	for _, appt := range appointments {
		if !appt.OccupiesSlot() {
			continue
		}

		minute, err := appt.StartTime.MinuteOfDay()
		if err != nil || minute != slotMinute {
			continue
		}

		if appt.EmployeeID == nil {
			return true
		}
		if _, ok := roster[*appt.EmployeeID]; ok {
			busy[*appt.EmployeeID] = struct{}{}
		}
	}

	return len(busy) == len(roster)
}

func toRosterSet(roster []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(roster))
	for _, id := range roster {
		set[id] = struct{}{}
	}
	return set
}
