package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务状态码；HTTP 状态恒为 200，前端只看 status_code
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeInternal        = 500
)

// RequestIDKey 请求 ID 在 gin 上下文中的键
const RequestIDKey = "request_id"

// Body 统一响应体，列表接口额外带 pagination
type Body struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 按总数计算总页数
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{StatusCode: CodeOK, Msg: "success", Data: data})
}

// SuccessWithPage 分页列表
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, Body{StatusCode: CodeOK, Msg: "success", Data: data, Pagination: &pagination})
}

// Error 失败响应，data 中回带 request_id 方便对照日志
func Error(c *gin.Context, code int, msg string) {
	var data interface{}
	if id := RequestID(c); id != "" {
		data = gin.H{RequestIDKey: id}
	}
	c.JSON(http.StatusOK, Body{StatusCode: code, Msg: msg, Data: data})
}

func Unauthorized(c *gin.Context, msg string) { Error(c, CodeUnauthorized, msg) }

func Forbidden(c *gin.Context, msg string) { Error(c, CodeForbidden, msg) }

// RequestID 读取当前请求 ID，不存在时为空
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(RequestIDKey)
}
