package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trimtime/booking-service/internal/config"
	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/pkg/types"
)

// SlotCache кеш рассчитанных сеток слотов в Redis.
//
// Инвалидация через счетчик поколений на пару (салон, дата): создание
// или отмена записи инкрементирует счетчик, и все закешированные сетки
// этого дня перестают находиться по ключу. Старые поколения вымываются
// по TTL.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

// NewSlotCache создает новый кеш слотов
func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{
		client: client,
		ttl:    ttl,
	}
}

// cachedGrid сериализуемое представление сетки в кеше
type cachedGrid struct {
	Slots []cachedSlot `json:"slots"`
}

type cachedSlot struct {
	Time                string  `json:"time"`
	Available           bool    `json:"available"`
	RestrictedToTier    *string `json:"restrictedToTier,omitempty"`
	BypassFeeMinorUnits *int64  `json:"bypassFeeMinorUnits,omitempty"`
}

// Get возвращает закешированную сетку слотов или nil при промахе
func (c *SlotCache) Get(ctx context.Context, businessID int64, date string, serviceID int64, employeeID *int64, tier domain.Tier) ([]domain.Slot, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}

	key, err := c.gridKey(ctx, businessID, date, serviceID, employeeID, tier)
	if err != nil {
		return nil, err
	}

	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slots from redis: %w", err)
	}

	var grid cachedGrid
	if err := json.Unmarshal([]byte(val), &grid); err != nil {
		return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
	}

	slots := make([]domain.Slot, 0, len(grid.Slots))
	for _, cs := range grid.Slots {
		slot := domain.Slot{
			Time:                types.TimeString(cs.Time),
			Available:           cs.Available,
			BypassFeeMinorUnits: cs.BypassFeeMinorUnits,
		}
		if cs.RestrictedToTier != nil {
			tier := domain.Tier(*cs.RestrictedToTier)
			slot.RestrictedToTier = &tier
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// Set сохраняет сетку слотов в кеш
func (c *SlotCache) Set(ctx context.Context, businessID int64, date string, serviceID int64, employeeID *int64, tier domain.Tier, slots []domain.Slot) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	key, err := c.gridKey(ctx, businessID, date, serviceID, employeeID, tier)
	if err != nil {
		return err
	}

	grid := cachedGrid{Slots: make([]cachedSlot, 0, len(slots))}
	for _, s := range slots {
		cs := cachedSlot{
			Time:                string(s.Time),
			Available:           s.Available,
			BypassFeeMinorUnits: s.BypassFeeMinorUnits,
		}
		if s.RestrictedToTier != nil {
			tierStr := string(*s.RestrictedToTier)
			cs.RestrictedToTier = &tierStr
		}
		grid.Slots = append(grid.Slots, cs)
	}

	data, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set slots in redis: %w", err)
	}

	return nil
}

// Invalidate сбрасывает все закешированные сетки дня через инкремент
// счетчика поколения
func (c *SlotCache) Invalidate(ctx context.Context, businessID int64, date string) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	genKey := c.generationKey(businessID, date)
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("failed to increment slot generation: %w", err)
	}
	// Счетчик живет дольше сеток, иначе просроченный счетчик
	// воскресил бы сетки старого поколения
	if err := c.client.Expire(ctx, genKey, 2*c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set slot generation expiry: %w", err)
	}

	return nil
}

func (c *SlotCache) generationKey(businessID int64, date string) string {
	return fmt.Sprintf("slots:gen:%d:%s", businessID, date)
}

func (c *SlotCache) gridKey(ctx context.Context, businessID int64, date string, serviceID int64, employeeID *int64, tier domain.Tier) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey(businessID, date)).Result()
	if err == redis.Nil {
		gen = "0"
	} else if err != nil {
		return "", fmt.Errorf("failed to get slot generation: %w", err)
	}

	employeePart := "any"
	if employeeID != nil {
		employeePart = fmt.Sprintf("%d", *employeeID)
	}

	return fmt.Sprintf("slots:grid:%d:%s:%s:%d:%s:%s", businessID, date, gen, serviceID, employeePart, tier), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
