package shared

import (
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/i18n"
	"github.com/tiffin-desk/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 鉴权中间件写入 gin 上下文的键
const (
	AdminIDKey      = "admin_id"
	UsernameKey     = "username"
	AdminIsSuperKey = "admin_is_super"
)

// Log 带 request_id 的请求日志
func Log(c *gin.Context) *zap.SugaredLogger {
	if id := response.RequestID(c); id != "" {
		return logger.SW(response.RequestIDKey, id)
	}
	return logger.S()
}

// Fail 按 i18n 键输出错误；原始错误只进日志，不下发给前端
func Fail(c *gin.Context, code int, key string, err error) {
	FailWithMsg(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// FailWithMsg 输出已本地化的错误文案
func FailWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		Log(c).Errorw("handler_error",
			"status_code", code,
			"route", c.FullPath(),
			"msg", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// CurrentAdminID 当前登录员工，未登录为 0
func CurrentAdminID(c *gin.Context) uint {
	return c.GetUint(AdminIDKey)
}

// RequireAdminID 未登录时直接回 401
func RequireAdminID(c *gin.Context) (uint, bool) {
	id := CurrentAdminID(c)
	if id == 0 {
		Fail(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return id, true
}

// IsSuperAdmin 当前员工是否为超级管理员
func IsSuperAdmin(c *gin.Context) bool {
	return c.GetBool(AdminIsSuperKey)
}
