package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/i18n"
	"github.com/tiffin-desk/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求提取限流主体，空串时退回客户端 IP
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流；BlockSeconds > 0 时超限后整段封禁
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

func NewRateLimitRule(prefix, messageKey string, cfg config.LoginRateLimitConfig) RateLimitRule {
	return RateLimitRule{
		Prefix:        prefix,
		WindowSeconds: cfg.WindowSeconds,
		MaxRequests:   cfg.MaxAttempts,
		BlockSeconds:  cfg.BlockSeconds,
		MessageKey:    messageKey,
	}
}

func (r RateLimitRule) active() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

// limiter 记一次访问，返回窗口内累计次数与剩余秒数
type limiter interface {
	hit(ctx context.Context, key string, rule RateLimitRule) (count int64, ttl int64, err error)
}

// RateLimitMiddleware 有 Redis 时多实例共享计数，否则按进程内存计数
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if !rule.active() {
		return func(c *gin.Context) { c.Next() }
	}
	var lim limiter = newMemoryLimiter()
	if client != nil {
		lim = redisLimiter{client: client}
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.rate_limited"
	}

	return func(c *gin.Context) {
		subject := ""
		if keyFunc != nil {
			subject = strings.TrimSpace(keyFunc(c))
		}
		if subject == "" {
			subject = c.ClientIP()
		}
		key := subject
		if rule.Prefix != "" {
			key = rule.Prefix + ":" + subject
		}

		count, ttl, err := lim.hit(c.Request.Context(), key, rule)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}
		if ttl < 1 {
			ttl = int64(rule.WindowSeconds)
		}
		logger.Infow("rate_limit_exceeded", "key", key, "count", count, "retry_after", ttl)
		response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, ttl))
		c.Abort()
	}
}

// KEYS[1] 计数键；ARGV: 窗口秒数、最大次数、封禁秒数
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if current == tonumber(ARGV[2]) + 1 and tonumber(ARGV[3]) > 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[3])
end
return {current, redis.call("TTL", KEYS[1])}
`)

type redisLimiter struct {
	client *redis.Client
}

func (l redisLimiter) hit(ctx context.Context, key string, rule RateLimitRule) (int64, int64, error) {
	values, err := rateLimitScript.Run(ctx, l.client, []string{key}, rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(values) < 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %v", values)
	}
	return values[0], values[1], nil
}

type memoryWindow struct {
	count     int64
	expiresAt time.Time
}

// memoryLimiter 单实例部署用；过期窗口在访问时顺带清理
type memoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{windows: make(map[string]*memoryWindow), now: time.Now}
}

func (l *memoryLimiter) hit(_ context.Context, key string, rule RateLimitRule) (int64, int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, w := range l.windows {
		if !now.Before(w.expiresAt) {
			delete(l.windows, k)
		}
	}
	w, ok := l.windows[key]
	if !ok {
		w = &memoryWindow{expiresAt: now.Add(time.Duration(rule.WindowSeconds) * time.Second)}
		l.windows[key] = w
	}
	w.count++
	if w.count == int64(rule.MaxRequests)+1 && rule.BlockSeconds > 0 {
		w.expiresAt = now.Add(time.Duration(rule.BlockSeconds) * time.Second)
	}
	return w.count, int64(w.expiresAt.Sub(now).Seconds()), nil
}

// KeyByIP 按客户端 IP
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段加 IP，读完后还原请求体
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		return joinKey(readJSONField(c, field), c.ClientIP())
	}
}

// KeyByIPAndQuery 按查询参数加 IP
func KeyByIPAndQuery(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		return joinKey(c.Query(field), c.ClientIP())
	}
}

func joinKey(value, ip string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ip
	}
	return value + "|" + ip
}

func readJSONField(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var payload map[string]interface{}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	text, _ := payload[field].(string)
	return strings.TrimSpace(text)
}
