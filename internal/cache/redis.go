package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ai-rio/lgpd-sentinel/internal/pii"
)

// ScanCache handles Redis-based caching of detection results, keyed by a
// hash of the scanned text so the text itself is never stored
type ScanCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	stats  *cacheStats
}

// cacheStats tracks cache performance metrics. Counters are updated from
// concurrent request handlers.
type cacheStats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// NewScanCache creates a new Redis-based scan cache
func NewScanCache(config *Config, logger *zap.Logger) (*ScanCache, error) {
	// Parse Redis URL
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Configure connection pool
	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	cache := &ScanCache{
		client: client,
		config: config,
		logger: logger,
		stats:  &cacheStats{},
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Scan cache initialized successfully",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.Int("max_connections", config.MaxConnections),
		zap.Duration("default_ttl", config.DefaultTTL))

	return cache, nil
}

// ping tests the Redis connection
func (sc *ScanCache) ping(ctx context.Context) error {
	_, err := sc.client.Ping(ctx).Result()
	return err
}

// Lookup checks whether a scan result for this text is cached
func (sc *ScanCache) Lookup(ctx context.Context, text string) (*LookupResult, error) {
	cacheKey := sc.textKey(text)

	cachedData, err := sc.client.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		// Cache miss
		sc.stats.misses.Add(1)
		sc.logger.Debug("Cache miss", zap.String("key", cacheKey))
		return &LookupResult{CacheHit: false}, nil
	} else if err != nil {
		sc.logger.Error("Cache lookup failed", zap.Error(err))
		return &LookupResult{CacheHit: false}, nil
	}

	var cachedScan CachedScan
	if err := json.Unmarshal([]byte(cachedData), &cachedScan); err != nil {
		sc.logger.Error("Failed to unmarshal cached scan", zap.Error(err))
		// Delete corrupted cache entry
		sc.client.Del(ctx, cacheKey)
		return &LookupResult{CacheHit: false}, nil
	}

	sc.stats.hits.Add(1)
	sc.logger.Debug("Cache hit",
		zap.String("key", cacheKey),
		zap.Bool("has_pii", cachedScan.Result.HasPII))

	return &LookupResult{
		Scan:     &cachedScan,
		CacheHit: true,
	}, nil
}

// Store caches a detection result for the given text
func (sc *ScanCache) Store(ctx context.Context, text string, result *pii.DetectionResult) error {
	cacheKey := sc.textKey(text)

	cachedScan := CachedScan{
		Result:   *result,
		CachedAt: time.Now(),
		TTL:      int64(sc.config.DefaultTTL.Seconds()),
	}

	// Serialize result; instance values are omitted by the result's own
	// JSON encoding.
	data, err := json.Marshal(&cachedScan)
	if err != nil {
		return fmt.Errorf("failed to marshal scan for caching: %w", err)
	}

	// Store in Redis with TTL
	err = sc.client.Set(ctx, cacheKey, data, sc.config.DefaultTTL).Err()
	if err != nil {
		sc.logger.Error("Failed to cache scan", zap.Error(err))
		return fmt.Errorf("failed to cache scan: %w", err)
	}

	sc.logger.Debug("Scan cached successfully",
		zap.String("key", cacheKey),
		zap.Bool("has_pii", result.HasPII),
		zap.Int("instances", result.TotalInstances()))

	return nil
}

// GetStats returns cache performance statistics
func (sc *ScanCache) GetStats(ctx context.Context) (*CacheStats, error) {
	// Get Redis info
	info, err := sc.client.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis info: %w", err)
	}

	stats := &CacheStats{
		Hits:   sc.stats.hits.Load(),
		Misses: sc.stats.misses.Load(),
	}

	// Calculate hit rate
	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}

	// Parse memory usage from Redis info
	lines := strings.Split(info, "\r\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "used_memory:") {
			if memStr := strings.TrimPrefix(line, "used_memory:"); memStr != "" {
				if mem, err := strconv.ParseInt(memStr, 10, 64); err == nil {
					stats.MemoryUsage = mem
				}
			}
		}
	}

	// Get total keys count
	keys, err := sc.client.DBSize(ctx).Result()
	if err == nil {
		stats.TotalKeys = keys
	}

	return stats, nil
}

// Clear removes all cached scans
func (sc *ScanCache) Clear(ctx context.Context) error {
	pattern := sc.config.KeyPrefix + "*"

	// Use SCAN to find all keys with our prefix
	iter := sc.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	// Delete keys in batches
	batchSize := 100
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		if err := sc.client.Del(ctx, keys[i:end]...).Err(); err != nil {
			sc.logger.Error("Failed to delete cache keys", zap.Error(err))
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	sc.logger.Info("Cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

// Close closes the Redis connection
func (sc *ScanCache) Close() error {
	if sc.client != nil {
		return sc.client.Close()
	}
	return nil
}

// textKey creates a cache key from the scanned text. Only the hash is
// used, so cache keys cannot be reversed into document content.
func (sc *ScanCache) textKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:])
	return fmt.Sprintf("%s:scan:%s", sc.config.KeyPrefix, hash[:32])
}

// maskRedisURL masks sensitive information in Redis URL for logging
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
