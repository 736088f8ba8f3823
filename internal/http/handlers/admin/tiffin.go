package admin

import (
	"fmt"
	"strconv"
	"strings"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// RenewTiffinRequest 续订请求，PeriodDays 为 0 时沿用原订阅天数
type RenewTiffinRequest struct {
	PeriodDays int `json:"period_days"`
}

// CreateTiffin 新建包月订阅
func (h *Handler) CreateTiffin(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var input service.CreateTiffinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input.AdminID = adminID

	detail, err := h.TiffinService.Create(c.Request.Context(), input)
	if err != nil {
		respondMapped(c, err, handlershared.TiffinErrorRules, "error.order_create_failed")
		return
	}
	response.Success(c, detail)
}

// ListTiffins 包月订阅列表
func (h *Handler) ListTiffins(c *gin.Context) {
	page := handlershared.QueryPagination(c)
	activeOn, ok := handlershared.ParseQueryDate(c, "active_on")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return
	}
	filter := repository.TiffinListFilter{
		Pagination: page,
		Status:     strings.TrimSpace(c.Query("status")),
		MealType:   strings.TrimSpace(c.Query("meal_type")),
		Search:     strings.TrimSpace(c.Query("search")),
		ActiveOn:   activeOn,
	}
	orders, total, err := h.TiffinService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	handlershared.RespondPage(c, orders, page, total)
}

// ListTiffinsDueForRenewal 即将到期待续订的订阅
func (h *Handler) ListTiffinsDueForRenewal(c *gin.Context) {
	leadDays, _ := strconv.Atoi(strings.TrimSpace(c.Query("days")))
	orders, err := h.TiffinService.DueForRenewal(leadDays)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, orders)
}

// GetTiffin 订阅详情
func (h *Handler) GetTiffin(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	detail, err := h.TiffinService.Get(id)
	if err != nil {
		respondMapped(c, err, handlershared.TiffinErrorRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, detail)
}

// PauseTiffin 暂停订阅
func (h *Handler) PauseTiffin(c *gin.Context) {
	h.transitionTiffin(c, h.TiffinService.Pause)
}

// ResumeTiffin 恢复订阅
func (h *Handler) ResumeTiffin(c *gin.Context) {
	h.transitionTiffin(c, h.TiffinService.Resume)
}

// CancelTiffin 取消订阅
func (h *Handler) CancelTiffin(c *gin.Context) {
	h.transitionTiffin(c, h.TiffinService.Cancel)
}

func (h *Handler) transitionTiffin(c *gin.Context, apply func(id, adminID uint) (*models.TiffinOrder, error)) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	order, err := apply(id, currentAdminID(c))
	if err != nil {
		respondMapped(c, err, handlershared.TiffinErrorRules, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// RenewTiffin 续订，生成新的订阅周期
func (h *Handler) RenewTiffin(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req RenewTiffinRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	if req.PeriodDays < 0 {
		respondError(c, response.CodeBadRequest, "error.tiffin_invalid", nil)
		return
	}
	detail, err := h.TiffinService.Renew(c.Request.Context(), id, currentAdminID(c), req.PeriodDays)
	if err != nil {
		respondMapped(c, err, handlershared.TiffinErrorRules, "error.order_create_failed")
		return
	}
	response.Success(c, detail)
}

// RecordTiffinPayment 登记订阅收款
func (h *Handler) RecordTiffinPayment(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	detail, err := h.TiffinService.RecordPayment(c.Request.Context(), id, req.Amount, currentAdminID(c))
	if err != nil {
		respondMapped(c, err, handlershared.TiffinErrorRules, "error.order_update_failed")
		return
	}
	response.Success(c, detail)
}

// GetTiffinInvoice 下载订阅发票 PDF
func (h *Handler) GetTiffinInvoice(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	detail, err := h.TiffinService.Get(id)
	if err != nil {
		respondMapped(c, err, handlershared.TiffinErrorRules, "error.order_fetch_failed")
		return
	}
	pdf, err := h.InvoiceService.RenderTiffinOrder(detail.Order)
	if err != nil {
		respondError(c, response.CodeInternal, "error.invoice_render_failed", err)
		return
	}
	writePDF(c, fmt.Sprintf("invoice-%s.pdf", detail.Order.SubscriptionNo), pdf)
}
