package shared

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const queryDateLayout = "2006-01-02"

func positiveUint(raw string) (uint, bool) {
	n, err := cast.ToUintE(strings.TrimSpace(raw))
	return n, err == nil && n > 0
}

// ParsePathUint 路径参数必须是正整数
func ParsePathUint(c *gin.Context, key string) (uint, bool) {
	return positiveUint(c.Param(key))
}

// ParseQueryUint 缺省或非法都按 0 处理
func ParseQueryUint(c *gin.Context, key string) uint {
	n, _ := positiveUint(c.Query(key))
	return n
}

// ParseQueryDate 按 UTC 解析 YYYY-MM-DD；参数缺省时返回 nil, true
func ParseQueryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	day, err := time.ParseInLocation(queryDateLayout, raw, time.UTC)
	if err != nil {
		return nil, false
	}
	return &day, true
}

func ParseQueryBool(c *gin.Context, key string) bool {
	return cast.ToBool(strings.TrimSpace(c.Query(key)))
}
