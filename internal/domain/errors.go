package domain

import "errors"

var (
	// ErrInvalidOperatingWindow возвращается при нарушении инвариантов рабочего окна
	ErrInvalidOperatingWindow = errors.New("domain: invalid operating window")

	// ErrInvalidRestrictedWindow возвращается при нарушении инвариантов ограниченного окна
	ErrInvalidRestrictedWindow = errors.New("domain: invalid restricted window")
)
