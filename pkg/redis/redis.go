package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/obaplab/obap-backend/config"
	"github.com/obaplab/obap-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken adds a token to the blacklist
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	key := fmt.Sprintf("blacklist:%s", token)
	err := client.Set(ctx, key, "revoked", expiry).Err()
	if err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}

	logger.Debug("Token successfully blacklisted", nil)
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()

	if err == redis.Nil {
		// Key does not exist - token is not blacklisted
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	// Token is blacklisted
	return val == "revoked", nil
}

// CacheSearchResult stores a serialized place-search result with a short TTL
func CacheSearchResult(ctx context.Context, cacheKey string, payload []byte, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("places:%s", cacheKey)
	if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
		logger.Warn("Failed to cache place search result", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return err
	}

	return nil
}

// GetCachedSearchResult returns a cached place-search payload, or nil on miss
func GetCachedSearchResult(ctx context.Context, cacheKey string) ([]byte, error) {
	if client == nil {
		return nil, nil
	}

	key := fmt.Sprintf("places:%s", cacheKey)
	payload, err := client.Get(ctx, key).Bytes()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Warn("Failed to read place search cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, err
	}

	return payload, nil
}
