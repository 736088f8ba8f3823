package public

import (
	"time"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/http/response"

	"github.com/gin-gonic/gin"
)

const publicConfigCacheTTL = 60 * time.Second

// GetConfig 获取店铺公开信息与计价参数
func (h *Handler) GetConfig(c *gin.Context) {
	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), constants.CacheKeyPublicConfig, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	business, err := h.SettingService.GetWithDefaults(constants.SettingKeyBusinessConfig, map[string]interface{}{
		constants.SettingFieldBusinessName:    "",
		constants.SettingFieldBusinessAddress: "",
		constants.SettingFieldBusinessPhone:   "",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}
	taxRate, err := h.SettingService.GetTaxRate(h.Config.Order.TaxRate)
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}
	currency := h.Config.Order.Currency
	if order, err := h.SettingService.GetByKey(constants.SettingKeyOrderConfig); err == nil {
		if value, ok := order[constants.SettingFieldCurrency].(string); ok && value != "" {
			currency = value
		}
	}

	data := map[string]interface{}{
		constants.SettingFieldBusinessName:    business[constants.SettingFieldBusinessName],
		constants.SettingFieldBusinessAddress: business[constants.SettingFieldBusinessAddress],
		constants.SettingFieldBusinessPhone:   business[constants.SettingFieldBusinessPhone],
		constants.SettingFieldCurrency:        currency,
		constants.SettingFieldTaxRate:         taxRate.String(),
	}
	_ = cache.SetJSON(c.Request.Context(), constants.CacheKeyPublicConfig, data, publicConfigCacheTTL)
	response.Success(c, data)
}

// GetMenu 按分类返回上架菜品
func (h *Handler) GetMenu(c *gin.Context) {
	groups, err := h.MenuService.ListActiveGrouped(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.menu_fetch_failed", err)
		return
	}
	response.Success(c, groups)
}
