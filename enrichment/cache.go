package enrichment

import (
	"sync"
	"time"
)

// CacheConfig конфигурация кэша запросов к внешнему реестру
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// RegistryCache кэш ответов внешнего реестра по тексту запроса
type RegistryCache struct {
	config *CacheConfig
	data   map[string]*cacheEntry
	mutex  sync.RWMutex
	stats  CacheStats
}

type cacheEntry struct {
	entities  []*RegistryEntity
	timestamp time.Time
}

// CacheStats статистика кэша
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// NewRegistryCache создает новый кэш
func NewRegistryCache(config *CacheConfig) *RegistryCache {
	cache := &RegistryCache{
		config: config,
		data:   make(map[string]*cacheEntry),
	}

	// Периодическая очистка устаревших записей
	if config.Enabled && config.CleanupInterval > 0 {
		go cache.startCleanup()
	}

	return cache
}

// Get возвращает закэшированный ответ реестра
func (c *RegistryCache) Get(query string) ([]*RegistryEntity, bool) {
	if !c.config.Enabled {
		return nil, false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[query]
	if !exists || time.Since(entry.timestamp) > c.config.TTL {
		c.stats.Misses++
		return nil, false
	}

	c.stats.Hits++
	return entry.entities, true
}

// Set сохраняет ответ реестра в кэш
func (c *RegistryCache) Set(query string, entities []*RegistryEntity) {
	if !c.config.Enabled {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[query] = &cacheEntry{
		entities:  entities,
		timestamp: time.Now(),
	}
	c.stats.Size = len(c.data)
}

// Clear очищает весь кэш
func (c *RegistryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]*cacheEntry)
	c.stats = CacheStats{}
}

// GetStats возвращает статистику кэша
func (c *RegistryCache) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}

// startCleanup запускает периодическую очистку устаревших записей
func (c *RegistryCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *RegistryCache) cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.Sub(entry.timestamp) > c.config.TTL {
			delete(c.data, key)
		}
	}
	c.stats.Size = len(c.data)
}
