package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":" Desk01 "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("username")(c)
	if key != "desk01|1.2.3.4" {
		t.Fatalf("key want desk01|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Desk01") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndQueryFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/public/track", nil)
	c.Request.RemoteAddr = "5.6.7.8:1000"
	if key := KeyByIPAndQuery("order_no")(c); key != "5.6.7.8" {
		t.Fatalf("key want ip only got %s", key)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/public/track?order_no=CT-1", nil)
	c.Request.RemoteAddr = "5.6.7.8:1000"
	if key := KeyByIPAndQuery("order_no")(c); key != "ct-1|5.6.7.8" {
		t.Fatalf("key want ct-1|5.6.7.8 got %s", key)
	}
}

func TestRateLimitMiddlewareFallsBackToMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("first request should pass, got %s", w.Body.String())
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if !strings.Contains(w.Body.String(), `"status_code":429`) {
		t.Fatalf("second request should be limited in memory, got %s", w.Body.String())
	}
}

func TestRateLimitMiddlewareDisabledRule(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("disabled rule should never limit, got %s", w.Body.String())
		}
	}
}

func TestRateLimitMiddlewareBlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rule := RateLimitRule{Prefix: "test:rate", WindowSeconds: 60, MaxRequests: 2, BlockSeconds: 300}
	r := gin.New()
	r.Use(RateLimitMiddleware(client, rule, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		var resp struct {
			StatusCode int `json:"status_code"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] == 429 || codes[1] == 429 {
		t.Fatalf("first two requests should pass, got %v", codes)
	}
	if codes[2] != 429 {
		t.Fatalf("third request should be limited, got %v", codes)
	}
	if ttl := mr.TTL("test:rate:192.0.2.1"); ttl.Seconds() <= 60 {
		t.Fatalf("block window should extend ttl, got %v", ttl)
	}
}

func TestMemoryLimiterBlockAndExpiry(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	lim := newMemoryLimiter()
	lim.now = func() time.Time { return now }
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 2, BlockSeconds: 300}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, ttl, err := lim.hit(ctx, "desk|10.0.0.1", rule)
		if err != nil || count != int64(i) {
			t.Fatalf("hit %d: count=%d err=%v", i, count, err)
		}
		if i == 3 && ttl != 300 {
			t.Fatalf("exceeding the limit should start the block window, ttl=%d", ttl)
		}
	}

	now = now.Add(301 * time.Second)
	count, _, _ := lim.hit(ctx, "desk|10.0.0.1", rule)
	if count != 1 {
		t.Fatalf("expired window should reset, got %d", count)
	}
	if len(lim.windows) != 1 {
		t.Fatalf("expired windows should be pruned, got %d", len(lim.windows))
	}
}
