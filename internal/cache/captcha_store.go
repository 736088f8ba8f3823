package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const captchaStoreTimeout = 2 * time.Second

// CaptchaStore 基于 Redis 的验证码答案存储，多实例部署时共享
type CaptchaStore struct {
	ttl time.Duration
}

// NewCaptchaStore Redis 未启用时返回 nil，调用方应回退到内存存储
func NewCaptchaStore(ttl time.Duration) *CaptchaStore {
	if !Enabled() {
		return nil
	}
	return &CaptchaStore{ttl: ttl}
}

func captchaKey(id string) string {
	return BuildKey("captcha:" + id)
}

// Set 保存答案
func (s *CaptchaStore) Set(id string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), captchaStoreTimeout)
	defer cancel()
	return redisClient.Set(ctx, captchaKey(id), value, s.ttl).Err()
}

// Get 读取答案，clear 为 true 时读取后删除
func (s *CaptchaStore) Get(id string, clear bool) string {
	ctx, cancel := context.WithTimeout(context.Background(), captchaStoreTimeout)
	defer cancel()
	var (
		value string
		err   error
	)
	if clear {
		value, err = redisClient.GetDel(ctx, captchaKey(id)).Result()
	} else {
		value, err = redisClient.Get(ctx, captchaKey(id)).Result()
	}
	if err != nil && err != redis.Nil {
		return ""
	}
	return value
}

// Verify 校验答案（忽略大小写）
func (s *CaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	return stored != "" && strings.EqualFold(stored, strings.TrimSpace(answer))
}
