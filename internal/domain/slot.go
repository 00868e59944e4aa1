package domain

import "github.com/trimtime/booking-service/pkg/types"

// Slot represents a single bookable time unit of the day grid.
// Слоты строятся заново на каждый запрос и нигде не сохраняются:
// результат носит рекомендательный характер, авторитетная проверка
// занятости выполняется в транзакции создания записи.
type Slot struct {
	Time      types.TimeString
	Available bool

	// RestrictedToTier не nil, когда слот закрыт для уровня клиента
	RestrictedToTier *Tier

	// BypassFeeMinorUnits не nil, когда закрытый слот можно выкупить
	BypassFeeMinorUnits *int64
}

// IsRestricted returns true if the slot is gated behind a loyalty tier
func (s *Slot) IsRestricted() bool {
	return s.RestrictedToTier != nil
}

// HasPaidBypass returns true if a fee-based bypass is offered for the slot
func (s *Slot) HasPaidBypass() bool {
	return s.IsRestricted() && s.BypassFeeMinorUnits != nil
}
