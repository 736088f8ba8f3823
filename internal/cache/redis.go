package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "td"
	pingTimeout      = 3 * time.Second
)

var (
	redisClient *redis.Client
	redisPrefix = defaultKeyPrefix
)

// InitRedis 连接 Redis；未启用或连不上时缓存保持关闭，调用方退回内存与数据库
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis %s unreachable: %w", cfg.Addr(), err)
	}

	redisClient = client
	if prefix := strings.TrimSpace(cfg.Prefix); prefix != "" {
		redisPrefix = prefix
	}
	return nil
}

// Close 释放连接并关闭缓存
func Close() error {
	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	redisPrefix = defaultKeyPrefix
	return err
}

func Enabled() bool {
	return redisClient != nil
}

// Client 未启用时返回 nil
func Client() *redis.Client {
	return redisClient
}

// BuildKey 加上全局前缀，多个门店实例可共用一个 Redis
func BuildKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return redisPrefix
	}
	return redisPrefix + ":" + key
}

// GetJSON 命中时解码到 dest
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, nil
	}
	raw, err := redisClient.Get(ctx, BuildKey(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return redisClient.Set(ctx, BuildKey(key), raw, ttl).Err()
}

func Del(ctx context.Context, key string) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Del(ctx, BuildKey(key)).Err()
}

// Incr 计数器加一，未启用时恒为 0
func Incr(ctx context.Context, key string) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	return redisClient.Incr(ctx, BuildKey(key)).Result()
}

// GetInt64 键不存在时为 0
func GetInt64(ctx context.Context, key string) (int64, error) {
	if !Enabled() {
		return 0, nil
	}
	n, err := redisClient.Get(ctx, BuildKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
