package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

func TestCache_Keys(t *testing.T) {
	c := NewCache(nil, 0)
	month := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)

	assert.Equal(t, "calendar:ver:42", c.versionKey(42))
	assert.Equal(t, "calendar:42:v3:2026-10:2026-10-19", c.dataKey(42, 3, month, today))
	assert.Equal(t, time.Minute, c.ttl)
}

func TestCodec(t *testing.T) {
	days := []domain.DayStatus{
		{Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Status: domain.SlotDisabled},
		{Date: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), Status: domain.SlotBooked},
	}

	raw, err := encodeDays(days)
	require.NoError(t, err)

	got, err := decodeDays(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(days, got); diff != "" {
		t.Errorf("decoded days mismatch (-want +got):\n%s", diff)
	}

	_, err = decodeDays([]byte(`{"broken"`))
	assert.ErrorIs(t, err, ErrCorruptedEntry)
}

func TestCache_RedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewCache(rdb, time.Minute)
	ctx := context.Background()
	now := time.Now()

	lookup, err := c.Get(ctx, 1, now, now)
	assert.False(t, lookup.Hit)
	assert.ErrorIs(t, err, ErrCacheUnavailable)
	assert.ErrorIs(t, c.Set(ctx, 1, 0, now, now, nil), ErrCacheUnavailable)

	assert.ErrorIs(t, c.Invalidate(ctx, 1), ErrCacheUnavailable)
}

func TestNop(t *testing.T) {
	var c Nop
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, 0, time.Now(), time.Now(), nil))
	lookup, err := c.Get(ctx, 1, time.Now(), time.Now())
	assert.NoError(t, err)
	assert.False(t, lookup.Hit)
	assert.NoError(t, c.Invalidate(ctx, 1))
}
