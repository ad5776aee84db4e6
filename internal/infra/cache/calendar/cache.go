package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

const defaultPrefix = "calendar"

var (
	// ErrCacheUnavailable ошибка обращения к Redis
	ErrCacheUnavailable = errors.New("calendar.cache: redis unavailable")

	// ErrCorruptedEntry запись в кэше не разбирается
	ErrCorruptedEntry = errors.New("calendar.cache: corrupted entry")
)

// Cache кэш проекций календаря в Redis
//
// Ключ данных включает версию репетитора: calendar:{tutor}:v{version}:{month}:{today}
// Инвалидация увеличивает версию (INCR), старые записи истекают по TTL
type Cache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewCache создает кэш. ttl <= 0 заменяется минутой
func NewCache(rdb redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl, prefix: defaultPrefix}
}

// Lookup результат чтения кэша
// Version - версия репетитора на момент чтения, под ней сохраняется пересчитанная сетка
type Lookup struct {
	Days    []domain.DayStatus
	Hit     bool
	Version int64
}

// Get возвращает сетку месяца, если она есть в кэше для текущей версии репетитора
func (c *Cache) Get(ctx context.Context, tutorID int64, month, today time.Time) (Lookup, error) {
	version, err := c.version(ctx, tutorID)
	if err != nil {
		return Lookup{}, err
	}

	raw, err := c.rdb.Get(ctx, c.dataKey(tutorID, version, month, today)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Lookup{Version: version}, nil
	}
	if err != nil {
		return Lookup{}, fmt.Errorf("%w: Get - tutor id=%d: %v", ErrCacheUnavailable, tutorID, err)
	}

	days, err := decodeDays(raw)
	if err != nil {
		return Lookup{Version: version}, err
	}
	return Lookup{Days: days, Hit: true, Version: version}, nil
}

// Set сохраняет сетку месяца под версией, прочитанной в Get
// Если между Get и Set репетитор изменился, запись ляжет под устаревшую версию и не будет прочитана
func (c *Cache) Set(ctx context.Context, tutorID, version int64, month, today time.Time, days []domain.DayStatus) error {
	raw, err := encodeDays(days)
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, c.dataKey(tutorID, version, month, today), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set - tutor id=%d: %v", ErrCacheUnavailable, tutorID, err)
	}
	return nil
}

// Invalidate делает все закэшированные месяцы репетитора устаревшими
func (c *Cache) Invalidate(ctx context.Context, tutorID int64) error {
	if err := c.rdb.Incr(ctx, c.versionKey(tutorID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - tutor id=%d: %v", ErrCacheUnavailable, tutorID, err)
	}
	return nil
}

func (c *Cache) version(ctx context.Context, tutorID int64) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey(tutorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: version - tutor id=%d: %v", ErrCacheUnavailable, tutorID, err)
	}
	return v, nil
}

func (c *Cache) versionKey(tutorID int64) string {
	return c.prefix + ":ver:" + strconv.FormatInt(tutorID, 10)
}

func (c *Cache) dataKey(tutorID, version int64, month, today time.Time) string {
	return fmt.Sprintf("%s:%d:v%d:%s:%s",
		c.prefix, tutorID, version, month.Format(domain.MonthFormat), today.Format(domain.DateFormat))
}

type cachedDay struct {
	Date   string `json:"d"`
	Status string `json:"s"`
}

func encodeDays(days []domain.DayStatus) ([]byte, error) {
	out := make([]cachedDay, len(days))
	for i, d := range days {
		out[i] = cachedDay{Date: d.Date.Format(domain.DateFormat), Status: string(d.Status)}
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedEntry, err)
	}
	return raw, nil
}

func decodeDays(raw []byte) ([]domain.DayStatus, error) {
	var in []cachedDay
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedEntry, err)
	}

	days := make([]domain.DayStatus, len(in))
	for i, d := range in {
		date, err := time.Parse(domain.DateFormat, d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptedEntry, err)
		}
		days[i] = domain.DayStatus{Date: date, Status: domain.SlotStatus(d.Status)}
	}
	return days, nil
}

// Nop кэш, который ничего не хранит (Redis выключен)
type Nop struct{}

func (Nop) Get(context.Context, int64, time.Time, time.Time) (Lookup, error) {
	return Lookup{}, nil
}

func (Nop) Set(context.Context, int64, int64, time.Time, time.Time, []domain.DayStatus) error {
	return nil
}

func (Nop) Invalidate(context.Context, int64) error {
	return nil
}
