package admin

import (
	"strings"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreRequest 门店请求
type StoreRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
	IsActive   *bool  `json:"is_active"`
}

// StaffRequest 员工请求
type StaffRequest struct {
	StoreID    uint   `json:"store_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Role       string `json:"role" binding:"required"`
	HourlyRate string `json:"hourly_rate"`
	Status     string `json:"status"`
	JoinedAt   string `json:"joined_at"` // YYYY-MM-DD
}

// ListStores 门店列表
func (h *Handler) ListStores(c *gin.Context) {
	stores, err := h.StoreService.ListStores()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, stores)
}

// GetStore 门店详情
func (h *Handler) GetStore(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	store, err := h.StoreService.GetStore(id)
	if err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, store)
}

// CreateStore 新增门店
func (h *Handler) CreateStore(c *gin.Context) {
	h.saveStore(c, 0)
}

// UpdateStore 更新门店
func (h *Handler) UpdateStore(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	h.saveStore(c, id)
}

func (h *Handler) saveStore(c *gin.Context, id uint) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, err := h.StoreService.SaveStore(id, service.StoreInput{
		Code:       req.Code,
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		PostalCode: req.PostalCode,
		IsActive:   boolOrTrue(req.IsActive),
	})
	if err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, store)
}

// DeleteStore 删除门店，仍有员工时拒绝
func (h *Handler) DeleteStore(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := h.StoreService.DeleteStore(id); err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}

// ListStaff 员工列表
func (h *Handler) ListStaff(c *gin.Context) {
	page := handlershared.QueryPagination(c)
	staff, total, err := h.StoreService.ListStaff(repository.StaffListFilter{
		Pagination: page,
		StoreID:    handlershared.ParseQueryUint(c, "store_id"),
		Role:       strings.TrimSpace(c.Query("role")),
		Status:     strings.TrimSpace(c.Query("status")),
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	handlershared.RespondPage(c, staff, page, total)
}

// GetStaff 员工详情
func (h *Handler) GetStaff(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	staff, err := h.StoreService.GetStaff(id)
	if err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, staff)
}

// CreateStaff 新增员工
func (h *Handler) CreateStaff(c *gin.Context) {
	h.saveStaff(c, 0)
}

// UpdateStaff 更新员工
func (h *Handler) UpdateStaff(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	h.saveStaff(c, id)
}

func (h *Handler) saveStaff(c *gin.Context, id uint) {
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	staff, err := h.StoreService.SaveStaff(id, service.StaffInput{
		StoreID:    req.StoreID,
		Name:       req.Name,
		Phone:      req.Phone,
		Role:       req.Role,
		HourlyRate: req.HourlyRate,
		Status:     req.Status,
		JoinedAt:   req.JoinedAt,
	})
	if err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, staff)
}

// DeleteStaff 删除员工
func (h *Handler) DeleteStaff(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := h.StoreService.DeleteStaff(id); err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}
