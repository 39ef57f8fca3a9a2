package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

// Cache in-process кэш справочных данных (тенанты, услуги, календарь)
// поверх ristretto. Одновременные промахи по одному ключу схлопываются singleflight-ом.
// Ошибки загрузки не кэшируются.
type Cache struct {
	store   *ristretto.Cache[string, any]
	group   singleflight.Group
	ttl     time.Duration
	metrics *metrics.Metrics

	mu       sync.Mutex
	versions map[int64]*atomic.Uint64
}

// New создает кэш на maxItems записей с временем жизни ttl; m может быть nil
func New(maxItems int64, ttl time.Duration, m *metrics.Metrics) (*Cache, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
		// стоимость записи = 1, размер структуры не учитываем
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: create ristretto: %w", err)
	}
	return &Cache{
		store:    store,
		ttl:      ttl,
		metrics:  m,
		versions: make(map[int64]*atomic.Uint64),
	}, nil
}

// GetOrLoad возвращает значение из кэша или загружает его через load.
// nil-кэш просто вызывает load.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	if v, ok := c.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			c.observe("hit")
			return typed, nil
		}
	}
	c.observe("miss")

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store.SetWithTTL(key, loaded, 1, c.ttl)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// TenantKey строит ключ, который перестает совпадать после InvalidateTenant
func (c *Cache) TenantKey(tenantID int64, parts ...interface{}) string {
	key := fmt.Sprintf("t:%d:v%d", tenantID, c.version(tenantID).Load())
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// InvalidateTenant делает недействительными все ключи тенанта, построенные через TenantKey
func (c *Cache) InvalidateTenant(tenantID int64) {
	if c == nil {
		return
	}
	c.version(tenantID).Add(1)
}

// Delete удаляет ключ
func (c *Cache) Delete(key string) {
	if c == nil {
		return
	}
	c.store.Del(key)
}

// Wait дожидается применения буферизованных записей (для тестов)
func (c *Cache) Wait() {
	c.store.Wait()
}

// Close освобождает ресурсы кэша
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.store.Close()
}

func (c *Cache) version(tenantID int64) *atomic.Uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.versions[tenantID]
	if !ok {
		v = &atomic.Uint64{}
		c.versions[tenantID] = v
	}
	return v
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.CacheRequests.WithLabelValues(result).Inc()
	}
}
