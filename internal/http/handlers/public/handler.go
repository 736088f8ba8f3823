package public

import "github.com/tiffin-desk/internal/provider"

// Handler 公开接口处理器入口
// 说明：仅承载无需登录的菜单浏览与配送进度查询。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
