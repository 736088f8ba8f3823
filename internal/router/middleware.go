package router

import (
	"errors"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/authz"
	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/i18n"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey           = response.RequestIDKey
	requestIDHeader        = "X-Request-ID"
	adminIDContextKey      = handlershared.AdminIDKey
	usernameContextKey     = handlershared.UsernameKey
	adminIsSuperContextKey = handlershared.AdminIsSuperKey
)

// RequestIDMiddleware 透传或生成请求 ID，写入上下文与响应头
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 每个请求一条结构化日志，带管理员 ID 便于追查录单操作
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", response.RequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if adminID, ok := c.Get(adminIDContextKey); ok {
			fields = append(fields, "admin_id", adminID)
		}
		if len(c.Errors) > 0 {
			sugar.Errorw("request", append(fields, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("request", fields...)
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

// JWTAuthMiddleware 校验 Bearer 令牌；停用账号与已吊销令牌立即失效
func JWTAuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || scheme != "Bearer" || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}

		claims, state, err := authService.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSigningKeyMissing):
				abortUnauthorized(c, "error.jwt_secret_missing")
			case errors.Is(err, service.ErrAdminDisabled):
				abortUnauthorized(c, "error.admin_disabled")
			case errors.Is(err, service.ErrTokenRevoked):
				abortUnauthorized(c, "error.token_revoked")
			default:
				abortUnauthorized(c, "error.token_invalid")
			}
			return
		}

		c.Set(adminIDContextKey, claims.AdminID)
		c.Set(usernameContextKey, claims.Username)
		c.Set(adminIsSuperContextKey, state.IsSuper)
		c.Next()
	}
}

// AdminRBACMiddleware 按路由模板与方法校验岗位权限，超级管理员直接放行
func AdminRBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(adminIsSuperContextKey) {
			c.Next()
			return
		}
		adminID, ok := c.Get(adminIDContextKey)
		id, typeOK := adminID.(uint)
		if !ok || !typeOK || id == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if resource == "" {
			resource = c.Request.URL.Path
		}
		allowed, err := authzService.EnforceAdmin(id, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"admin_id", id,
				"method", c.Request.Method,
				"resource", resource,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"admin_id", id,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}
		c.Next()
	}
}
