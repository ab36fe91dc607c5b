package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Response cache for hot read paths. Every helper degrades to a no-op when
// Redis is down; the database stays the source of truth. This is separate
// from the per-game price cache, which lives on the game record itself.

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

// InitRedis initializes the Redis connection.
func InitRedis() error {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(pingCtx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// IsRedisAvailable checks if Redis is connected.
func IsRedisAvailable() bool {
	if RedisClient == nil {
		return false
	}
	_, err := RedisClient.Ping(ctx).Result()
	return err == nil
}

// Cache key prefixes and TTLs per kind of data.
const (
	gamesListPrefix = "games:list:"    // games:list:<query signature>
	filterOptionKey = "games:filters:" // games:filters:genres, games:filters:tags
	libraryPrefix   = "library:user:"  // library:user:123

	gamesListTTL     = 5 * time.Minute
	filterOptionsTTL = time.Hour
	libraryTTL       = 5 * time.Minute
)

// Set stores any value with a TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if !IsRedisAvailable() {
		return fmt.Errorf("redis not available")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return RedisClient.Set(ctx, key, data, ttl).Err()
}

// Get retrieves a value into dest. A miss returns an error.
func Get(key string, dest interface{}) error {
	if !IsRedisAvailable() {
		return fmt.Errorf("redis not available")
	}
	val, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss")
	}
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

// Delete removes a key.
func Delete(key string) error {
	if !IsRedisAvailable() {
		return nil
	}
	return RedisClient.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching a glob pattern.
func DeletePattern(pattern string) error {
	if !IsRedisAvailable() {
		return nil
	}
	iter := RedisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// ==================== CATALOG LISTINGS ====================

// GetGamesList returns a cached listing for the given query signature.
func GetGamesList(signature string, dest interface{}) error {
	return Get(gamesListPrefix+signature, dest)
}

// SetGamesList caches a listing for its query signature.
func SetGamesList(signature string, games interface{}) error {
	return Set(gamesListPrefix+signature, games, gamesListTTL)
}

// InvalidateGamesLists drops every cached listing, e.g. after a price refresh
// changed a record that listings embed.
func InvalidateGamesLists() error {
	return DeletePattern(gamesListPrefix + "*")
}

// ==================== FILTER OPTIONS ====================

// GetFilterOptions returns cached distinct genre/tag values.
func GetFilterOptions(kind string, dest interface{}) error {
	return Get(filterOptionKey+kind, dest)
}

// SetFilterOptions caches distinct genre/tag values.
func SetFilterOptions(kind string, values interface{}) error {
	return Set(filterOptionKey+kind, values, filterOptionsTTL)
}

// ==================== USER LIBRARIES ====================

// GetUserLibrary returns a cached library listing.
func GetUserLibrary(userID uint, dest interface{}) error {
	return Get(fmt.Sprintf("%s%d", libraryPrefix, userID), dest)
}

// SetUserLibrary caches a library listing.
func SetUserLibrary(userID uint, library interface{}) error {
	return Set(fmt.Sprintf("%s%d", libraryPrefix, userID), library, libraryTTL)
}

// InvalidateUserLibrary drops a user's cached library after any mutation.
func InvalidateUserLibrary(userID uint) error {
	return Delete(fmt.Sprintf("%s%d", libraryPrefix, userID))
}
