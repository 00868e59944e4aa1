package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/pkg/ptr"
	"github.com/trimtime/booking-service/pkg/types"
)

func TestSlotCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	slotCache := NewSlotCache(client, time.Minute)
	ctx := context.Background()

	vip := domain.TierVIP
	slots := []domain.Slot{
		{Time: types.TimeString("09:00"), Available: true},
		{Time: types.TimeString("09:30"), Available: false},
		{
			Time:                types.TimeString("18:00"),
			Available:           true,
			RestrictedToTier:    &vip,
			BypassFeeMinorUnits: ptr.Ptr(int64(1500)),
		},
	}

	t.Run("SetAndGet", func(t *testing.T) {
		err := slotCache.Set(ctx, 1, "2026-09-01", 10, nil, domain.TierStandard, slots)
		require.NoError(t, err)

		got, err := slotCache.Get(ctx, 1, "2026-09-01", 10, nil, domain.TierStandard)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, slots, got)
	})

	t.Run("MissOnDifferentEmployee", func(t *testing.T) {
		got, err := slotCache.Get(ctx, 1, "2026-09-01", 10, ptr.Ptr(int64(7)), domain.TierStandard)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("MissOnDifferentTier", func(t *testing.T) {
		got, err := slotCache.Get(ctx, 1, "2026-09-01", 10, nil, domain.TierVIP)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InvalidateDropsDay", func(t *testing.T) {
		err := slotCache.Set(ctx, 2, "2026-09-02", 10, nil, domain.TierStandard, slots)
		require.NoError(t, err)

		err = slotCache.Invalidate(ctx, 2, "2026-09-02")
		require.NoError(t, err)

		got, err := slotCache.Get(ctx, 2, "2026-09-02", 10, nil, domain.TierStandard)
		require.NoError(t, err)
		assert.Nil(t, got)

		// Счетчик поколений ограничен по времени жизни двойным TTL сеток,
		// иначе ключи накапливались бы по одному на каждый день
		assert.Equal(t, 2*time.Minute, s.TTL("slots:gen:2:2026-09-02"))
	})

	t.Run("InvalidateLeavesOtherDaysIntact", func(t *testing.T) {
		err := slotCache.Set(ctx, 3, "2026-09-03", 10, nil, domain.TierStandard, slots)
		require.NoError(t, err)

		err = slotCache.Invalidate(ctx, 3, "2026-09-04")
		require.NoError(t, err)

		got, err := slotCache.Get(ctx, 3, "2026-09-03", 10, nil, domain.TierStandard)
		require.NoError(t, err)
		assert.Equal(t, slots, got)
	})

	t.Run("ExpiresByTTL", func(t *testing.T) {
		err := slotCache.Set(ctx, 4, "2026-09-05", 10, nil, domain.TierStandard, slots)
		require.NoError(t, err)

		s.FastForward(time.Minute + time.Second)

		got, err := slotCache.Get(ctx, 4, "2026-09-05", 10, nil, domain.TierStandard)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("NilClient", func(t *testing.T) {
		nilCache := NewSlotCache(nil, time.Minute)
		_, err := nilCache.Get(ctx, 1, "2026-09-01", 10, nil, domain.TierStandard)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})
}
