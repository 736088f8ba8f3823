package admin

import (
	"strings"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/constants"
	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"

	"github.com/gin-gonic/gin"
)

type settingPayload struct {
	Key   string                 `json:"key" binding:"required"`
	Value map[string]interface{} `json:"value" binding:"required"`
}

// GetSettings 带 ?key= 时返回该键（未保存过为 null），否则返回全部设置
func (h *Handler) GetSettings(c *gin.Context) {
	key := strings.TrimSpace(c.Query("key"))
	var (
		value interface{}
		err   error
	)
	if key == "" {
		value, err = h.SettingService.All()
	} else {
		value, err = h.SettingService.GetByKey(key)
	}
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}
	response.Success(c, value)
}

// UpdateSettings 只写入已知字段，与已保存值合并
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingPayload
	if !bindJSON(c, &req) {
		return
	}
	key := strings.TrimSpace(req.Key)
	value, err := h.SettingService.Update(key, req.Value)
	if err != nil {
		respondMapped(c, err, handlershared.SettingErrorRules, "error.setting_update_failed")
		return
	}
	if err := cache.Del(c.Request.Context(), constants.CacheKeyPublicConfig); err != nil {
		handlershared.Log(c).Warnw("public_config_cache_del_failed", "error", err)
	}
	logOperator(c, "setting_updated", "key", key)
	response.Success(c, value)
}
