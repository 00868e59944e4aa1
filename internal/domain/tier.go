package domain

import (
	"errors"
	"strings"
)

// Tier represents a customer's loyalty classification.
// Levels are ordered: a higher tier always satisfies a lower requirement.
type Tier string

const (
	TierStandard Tier = "standard"
	TierVIP      Tier = "vip"
)

// ErrUnknownTier возвращается при неизвестном значении уровня лояльности
var ErrUnknownTier = errors.New("unknown loyalty tier")

// tierRank порядок уровней для сравнения "не ниже чем"
var tierRank = map[Tier]int{
	TierStandard: 0,
	TierVIP:      1,
}

// ParseTier парсит уровень лояльности. Пустая строка считается standard:
// внешний сервис лояльности может быть недоступен, и клиент без профиля
// трактуется как обычный.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return TierStandard, nil
	case TierStandard:
		return TierStandard, nil
	case TierVIP:
		return TierVIP, nil
	default:
		return "", ErrUnknownTier
	}
}

// Meets returns true if the tier satisfies the required minimum tier.
// Это гейт "минимальный уровень", а не точное совпадение: vip проходит
// везде, где достаточно standard.
func (t Tier) Meets(required Tier) bool {
	return tierRank[t] >= tierRank[required]
}

// Valid returns true for a known tier value
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}
