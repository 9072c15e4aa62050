// Package slots кэширует кандидатов в слоты в Redis.
// В кэш попадают слоты до фильтра по минимальному времени записи, так как он зависит от текущего времени.
//
// Ключи записей содержат поколение календаря. InvalidateCalendar увеличивает поколение,
// поэтому запись, посчитанная по состоянию до инвалидации, попадает под старый ключ и
// больше никогда не читается.
package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const keyPrefix = "slots"

var (
	// ErrCacheMiss возвращается, когда в кэше нет значения
	ErrCacheMiss = errors.New("slots.cache: cache miss")
)

// Cache кэш слотов по (календарь, тип услуги, дата)
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает кэш. При client == nil кэш отключен: Get всегда промах, запись игнорируется.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

type cachedSlot struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	OwnerID        *int64    `json:"ownerId,omitempty"`
	OwnerName      string    `json:"ownerName"`
	AvailableSpots int       `json:"availableSpots"`
	TotalSpots     int       `json:"totalSpots"`
}

// Key ключ записи кэша
func Key(calendarID, generation, serviceTypeID int64, date string) string {
	return fmt.Sprintf("%s:%d:g%d:%d:%s", keyPrefix, calendarID, generation, serviceTypeID, date)
}

// GenerationKey ключ счетчика поколений календаря
func GenerationKey(calendarID int64) string {
	return fmt.Sprintf("%s:gen:%d", keyPrefix, calendarID)
}

// Generation возвращает текущее поколение календаря.
// Читать его нужно до загрузки состояния, по которому строятся слоты.
func (c *Cache) Generation(ctx context.Context, calendarID int64) (int64, error) {
	if c.client == nil {
		return 0, nil
	}

	key := GenerationKey(calendarID)
	gen, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("slots.cache: redis get %s: %w", key, err)
	}

	return gen, nil
}

// Get возвращает слоты из кэша
func (c *Cache) Get(ctx context.Context, calendarID, generation, serviceTypeID int64, date string) ([]domain.AvailableSlot, error) {
	if c.client == nil {
		return nil, ErrCacheMiss
	}

	key := Key(calendarID, generation, serviceTypeID, date)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("slots.cache: redis get %s: %w", key, err)
	}

	var cached []cachedSlot
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("slots.cache: unmarshal %s: %w", key, err)
	}

	result := make([]domain.AvailableSlot, len(cached))
	for i, s := range cached {
		result[i] = domain.AvailableSlot{
			Start:          s.Start,
			End:            s.End,
			OwnerID:        s.OwnerID,
			OwnerName:      s.OwnerName,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		}
	}

	return result, nil
}

// Set сохраняет слоты с TTL кэша
func (c *Cache) Set(ctx context.Context, calendarID, generation, serviceTypeID int64, date string, slots []domain.AvailableSlot) error {
	if c.client == nil {
		return nil
	}

	cached := make([]cachedSlot, len(slots))
	for i, s := range slots {
		cached[i] = cachedSlot{
			Start:          s.Start,
			End:            s.End,
			OwnerID:        s.OwnerID,
			OwnerName:      s.OwnerName,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		}
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("slots.cache: marshal: %w", err)
	}

	key := Key(calendarID, generation, serviceTypeID, date)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("slots.cache: redis set %s: %w", key, err)
	}

	return nil
}

// InvalidateCalendar переводит календарь на новое поколение.
// Записи прошлых поколений не читаются и истекают по TTL.
func (c *Cache) InvalidateCalendar(ctx context.Context, calendarID int64) error {
	if c.client == nil {
		return nil
	}

	key := GenerationKey(calendarID)
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("slots.cache: redis incr %s: %w", key, err)
	}

	return nil
}
