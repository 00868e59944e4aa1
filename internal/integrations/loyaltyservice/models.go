package loyaltyservice

// LoyaltyProfile профиль лояльности клиента из LoyaltyService.
// Tier вычисляется на стороне сервиса лояльности по балансу баллов
// (порог настраивается там же); здесь значение используется как есть.
type LoyaltyProfile struct {
	CustomerID int64  `json:"customer_id"`
	Points     int64  `json:"points"`
	Tier       string `json:"tier"` // "standard" | "vip"
}

// ErrorResponse модель ошибки от LoyaltyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
