package admin

import "github.com/tiffin-desk/internal/provider"

// Handler 后台接口处理器入口
// 说明：仅服务于登录后的门店员工与管理员。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
