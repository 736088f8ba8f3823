package admin

import (
	"strings"
	"time"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// ZoneRequest 配送区域请求
type ZoneRequest struct {
	Name           string   `json:"name" binding:"required"`
	PostalPrefixes []string `json:"postal_prefixes" binding:"required,min=1"`
	DeliveryCharge string   `json:"delivery_charge"`
	IsActive       *bool    `json:"is_active"`
	SortOrder      int      `json:"sort_order"`
}

// DriverRequest 配送员请求
type DriverRequest struct {
	StaffID   *uint  `json:"staff_id"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	VehicleNo string `json:"vehicle_no"`
	IsActive  *bool  `json:"is_active"`
}

// AssignDriverRequest 指派配送员请求
type AssignDriverRequest struct {
	DriverID uint `json:"driver_id" binding:"required"`
}

// DeliveryStatusRequest 配送状态流转请求
type DeliveryStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ScheduleDeliveriesRequest 生成包月配送单请求，日期为空时取明天
type ScheduleDeliveriesRequest struct {
	Date string `json:"date"`
}

func boolOrTrue(value *bool) bool {
	return value == nil || *value
}

// ListZones 配送区域列表
func (h *Handler) ListZones(c *gin.Context) {
	zones, err := h.DeliveryService.ListZones(handlershared.ParseQueryBool(c, "active"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}
	response.Success(c, zones)
}

// MatchZone 按邮编匹配配送区域
func (h *Handler) MatchZone(c *gin.Context) {
	postal := strings.TrimSpace(c.Query("postal_code"))
	if postal == "" {
		respondError(c, response.CodeBadRequest, "error.zone_invalid", nil)
		return
	}
	zone, err := h.DeliveryService.AssignZone(postal)
	if err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.delivery_fetch_failed")
		return
	}
	response.Success(c, zone)
}

// CreateZone 新增配送区域
func (h *Handler) CreateZone(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	zone, err := h.DeliveryService.CreateZone(req.toInput())
	if err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.internal")
		return
	}
	response.Success(c, zone)
}

// UpdateZone 更新配送区域
func (h *Handler) UpdateZone(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	zone, err := h.DeliveryService.UpdateZone(id, req.toInput())
	if err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.internal")
		return
	}
	response.Success(c, zone)
}

// DeleteZone 删除配送区域
func (h *Handler) DeleteZone(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := h.DeliveryService.DeleteZone(id); err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}

func (r ZoneRequest) toInput() service.ZoneInput {
	return service.ZoneInput{
		Name:           r.Name,
		PostalPrefixes: r.PostalPrefixes,
		DeliveryCharge: r.DeliveryCharge,
		IsActive:       boolOrTrue(r.IsActive),
		SortOrder:      r.SortOrder,
	}
}

// ListDrivers 配送员列表
func (h *Handler) ListDrivers(c *gin.Context) {
	drivers, err := h.DeliveryService.ListDrivers(handlershared.ParseQueryBool(c, "active"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}
	response.Success(c, drivers)
}

// CreateDriver 新增配送员
func (h *Handler) CreateDriver(c *gin.Context) {
	h.saveDriver(c, 0)
}

// UpdateDriver 更新配送员
func (h *Handler) UpdateDriver(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	h.saveDriver(c, id)
}

func (h *Handler) saveDriver(c *gin.Context, id uint) {
	var req DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	driver, err := h.DeliveryService.SaveDriver(id, service.DriverInput{
		StaffID:   req.StaffID,
		Name:      req.Name,
		Phone:     req.Phone,
		VehicleNo: req.VehicleNo,
		IsActive:  boolOrTrue(req.IsActive),
	})
	if err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.internal")
		return
	}
	response.Success(c, driver)
}

// DeleteDriver 删除配送员
func (h *Handler) DeleteDriver(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := h.DeliveryService.DeleteDriver(id); err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}

// ListDeliveries 配送单列表，date 为空时不按日期过滤
func (h *Handler) ListDeliveries(c *gin.Context) {
	page := handlershared.QueryPagination(c)
	date, ok := handlershared.ParseQueryDate(c, "date")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return
	}
	deliveries, total, err := h.DeliveryService.ListDeliveries(repository.DeliveryListFilter{
		Pagination: page,
		Date:       date,
		ZoneID:     handlershared.ParseQueryUint(c, "zone_id"),
		DriverID:   handlershared.ParseQueryUint(c, "driver_id"),
		Status:     strings.TrimSpace(c.Query("status")),
		SourceType: strings.TrimSpace(c.Query("source_type")),
		OrderNo:    strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.delivery_fetch_failed", err)
		return
	}
	handlershared.RespondPage(c, deliveries, page, total)
}

// ScheduleDeliveries 手动生成指定日期的包月配送单
func (h *Handler) ScheduleDeliveries(c *gin.Context) {
	var req ScheduleDeliveriesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	day := time.Now().UTC().AddDate(0, 0, 1)
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
			return
		}
		day = parsed
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	created, err := h.DeliveryService.ScheduleTiffinDeliveries(c.Request.Context(), day)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"date":    day.Format("2006-01-02"),
		"created": created,
	})
}

// AssignDeliveryDriver 指派配送员
func (h *Handler) AssignDeliveryDriver(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	delivery, err := h.DeliveryService.AssignDriver(c.Request.Context(), id, req.DriverID)
	if err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.internal")
		return
	}
	response.Success(c, delivery)
}

// UpdateDeliveryStatus 更新配送状态
func (h *Handler) UpdateDeliveryStatus(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req DeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	delivery, err := h.DeliveryService.UpdateDeliveryStatus(c.Request.Context(), id, req.Status, req.Reason)
	if err != nil {
		respondMapped(c, err, handlershared.DeliveryErrorRules, "error.internal")
		return
	}
	response.Success(c, delivery)
}
