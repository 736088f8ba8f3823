package admin

import (
	"errors"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/i18n"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.Fail(c, code, key, err)
}

func respondMapped(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	handlershared.FailMapped(c, err, rules, fallbackKey)
}

// respondPasswordPolicyError 弱密码按具体规则提示，其余错误返回 false 交给调用方
func respondPasswordPolicyError(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrWeakPassword) {
		return false
	}
	var perr service.PasswordPolicyError
	if !errors.As(err, &perr) {
		respondError(c, response.CodeBadRequest, "error.password_invalid", nil)
		return true
	}
	msg := i18n.Sprintf(i18n.ResolveLocale(c), perr.Key(), perr.Args()...)
	handlershared.FailWithMsg(c, response.CodeBadRequest, msg, nil)
	return true
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.RequireAdminID(c)
}

func currentAdminID(c *gin.Context) uint {
	return handlershared.CurrentAdminID(c)
}

func parsePathID(c *gin.Context) (uint, bool) {
	id, ok := handlershared.ParsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
	}
	return id, ok
}

// bindJSON 解析请求体，失败时已回写 400
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return false
	}
	return true
}

// logOperator 记录后台操作，附带操作人
func logOperator(c *gin.Context, event string, kv ...interface{}) {
	fields := append([]interface{}{"operator_admin_id", currentAdminID(c)}, kv...)
	handlershared.Log(c).Infow(event, fields...)
}
