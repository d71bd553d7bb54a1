package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const settingsKey = "settings:office"

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: every
// caller degrades to the database when client is nil.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// hashCredentials creates a hash of phone+password for the auth cache key
func hashCredentials(phone, password string) string {
	h := sha256.New()
	h.Write([]byte(phone + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, phone, password string) (int, bool) {
	if client == nil {
		return 0, false
	}
	userID, err := client.Get(ctx, hashCredentials(phone, password)).Int()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials for 15 minutes to skip bcrypt
func CacheAuth(ctx context.Context, phone, password string, userID int) {
	if client == nil {
		return
	}
	client.Set(ctx, hashCredentials(phone, password), strconv.Itoa(userID), 15*time.Minute)
}

// InvalidateAuth removes cached auth for a user (on password change)
func InvalidateAuth(ctx context.Context, phone, password string) {
	if client == nil {
		return
	}
	client.Del(ctx, hashCredentials(phone, password))
}

// GetCachedSettings returns the cached settings document if present.
// The tier limits are read on every create operation, so they are worth
// keeping out of the database.
func GetCachedSettings(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheSettings caches the settings document for 5 minutes
func CacheSettings(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, settingsKey, data, 5*time.Minute)
}

// InvalidateSettings drops the cached settings after an admin update
func InvalidateSettings(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, settingsKey)
}
