package loyaltyservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trimtime/booking-service/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с LoyaltyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента LoyaltyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProfile получает профиль лояльности клиента
func (c *Client) GetProfile(ctx context.Context, customerID int64) (*LoyaltyProfile, error) {
	url := fmt.Sprintf("%s/internal/customers/%d/loyalty", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrProfileNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile LoyaltyProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// ResolveTier возвращает уровень лояльности клиента с graceful degradation:
// при недоступности LoyaltyService или отсутствии профиля клиент
// трактуется как standard, доступность слотов от этого не ломается.
func (c *Client) ResolveTier(ctx context.Context, customerID *int64) domain.Tier {
	// Публичная запись без аккаунта - всегда standard
	if customerID == nil {
		return domain.TierStandard
	}

	profile, err := c.GetProfile(ctx, *customerID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.log.Info("No loyalty profile for customer_id=%d, treating as standard", *customerID)
			return domain.TierStandard
		}
		// Недоступность сервиса лояльности не должна блокировать запись.
		// Логируем как ERROR, чтобы проблему заметили быстро.
		c.log.Error("LoyaltyService unavailable, applying graceful degradation for customer_id=%d: %v", *customerID, err)
		return domain.TierStandard
	}

	tier, err := domain.ParseTier(profile.Tier)
	if err != nil {
		c.log.Warn("Unknown tier %q for customer_id=%d, treating as standard", profile.Tier, *customerID)
		return domain.TierStandard
	}

	c.log.Info("Resolved tier=%s for customer_id=%d (points=%d)", tier, *customerID, profile.Points)
	return tier
}
