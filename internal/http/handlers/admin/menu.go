package admin

import (
	"strings"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// MenuItemRequest 菜品创建/更新请求，价格为空表示该规格不可选
type MenuItemRequest struct {
	Category    string `json:"category" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SmallPrice  string `json:"small_price"`
	MediumPrice string `json:"medium_price"`
	LargePrice  string `json:"large_price"`
	IsVeg       bool   `json:"is_veg"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (r MenuItemRequest) toInput() service.MenuItemInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.MenuItemInput{
		Category:    r.Category,
		Name:        r.Name,
		Description: r.Description,
		SmallPrice:  r.SmallPrice,
		MediumPrice: r.MediumPrice,
		LargePrice:  r.LargePrice,
		IsVeg:       r.IsVeg,
		IsActive:    active,
		SortOrder:   r.SortOrder,
	}
}

// ListMenuItems 菜品列表
func (h *Handler) ListMenuItems(c *gin.Context) {
	page := handlershared.QueryPagination(c)
	filter := repository.MenuItemListFilter{
		Pagination: page,
		Category:   strings.TrimSpace(c.Query("category")),
		Search:     strings.TrimSpace(c.Query("search")),
		OnlyActive: handlershared.ParseQueryBool(c, "active"),
	}
	items, total, err := h.MenuService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.menu_fetch_failed", err)
		return
	}
	handlershared.RespondPage(c, items, page, total)
}

// ListMenuCategories 菜单分类
func (h *Handler) ListMenuCategories(c *gin.Context) {
	categories, err := h.MenuService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.menu_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}

// GetMenuItem 菜品详情
func (h *Handler) GetMenuItem(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	item, err := h.MenuService.Get(id)
	if err != nil {
		respondMapped(c, err, handlershared.MenuErrorRules, "error.menu_fetch_failed")
		return
	}
	response.Success(c, item)
}

// CreateMenuItem 新增菜品
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.MenuService.Create(req.toInput())
	if err != nil {
		respondMapped(c, err, handlershared.MenuErrorRules, "error.internal")
		return
	}
	response.Success(c, item)
}

// UpdateMenuItem 更新菜品
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.MenuService.Update(id, req.toInput())
	if err != nil {
		respondMapped(c, err, handlershared.MenuErrorRules, "error.internal")
		return
	}
	response.Success(c, item)
}

// DeleteMenuItem 删除菜品
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := h.MenuService.Delete(id); err != nil {
		respondMapped(c, err, handlershared.MenuErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}
