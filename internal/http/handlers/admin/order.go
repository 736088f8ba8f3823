package admin

import (
	"fmt"
	"net/http"
	"strings"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

var notifyErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotifierDisabled, Code: response.CodeBadRequest, Key: "error.notify_unavailable"},
	{Target: service.ErrNotifyNoReceiver, Code: response.CodeBadRequest, Key: "error.notify_unavailable"},
	{Target: service.ErrNotifyFailed, Code: response.CodeInternal, Key: "error.notify_failed"},
}

// OrderStatusRequest 订单状态流转请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PaymentRequest 登记收款请求
type PaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// SubmitOrder 提交餐饮订单：引用草稿，或在请求体中直接携带菜品与付款字段
func (h *Handler) SubmitOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var input service.SubmitCateringOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input.AdminID = adminID
	input.RequestID = response.RequestID(c)

	result, err := h.OrderService.SubmitCateringOrder(c.Request.Context(), input)
	if err != nil {
		respondMapped(c, err, handlershared.OrderErrorRules, "error.order_create_failed")
		return
	}
	response.Success(c, result)
}

// ListOrders 餐饮订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page := handlershared.QueryPagination(c)
	deliveryFrom, okFrom := handlershared.ParseQueryDate(c, "delivery_from")
	deliveryTo, okTo := handlershared.ParseQueryDate(c, "delivery_to")
	createdFrom, okCreatedFrom := handlershared.ParseQueryDate(c, "created_from")
	createdTo, okCreatedTo := handlershared.ParseQueryDate(c, "created_to")
	if !okFrom || !okTo || !okCreatedFrom || !okCreatedTo {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return
	}

	filter := repository.CateringOrderListFilter{
		Pagination:   page,
		Status:       strings.TrimSpace(c.Query("status")),
		PaymentState: strings.TrimSpace(c.Query("payment_state")),
		OrderNo:      strings.TrimSpace(c.Query("order_no")),
		Search:       strings.TrimSpace(c.Query("search")),
		DeliveryFrom: deliveryFrom,
		DeliveryTo:   deliveryTo,
		CreatedFrom:  createdFrom,
		CreatedTo:    createdTo,
	}
	orders, total, err := h.OrderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	handlershared.RespondPage(c, orders, page, total)
}

// GetOrder 订单详情（含事件与配送单）
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	detail, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondMapped(c, err, handlershared.OrderErrorRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, detail)
}

// UpdateOrderStatus 订单状态流转
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(c.Request.Context(), id, req.Status, currentAdminID(c))
	if err != nil {
		respondMapped(c, err, handlershared.OrderErrorRules, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// UpdateOrderDetails 修改配送信息
func (h *Handler) UpdateOrderDetails(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var input service.OrderDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdateDetails(c.Request.Context(), id, input, currentAdminID(c))
	if err != nil {
		respondMapped(c, err, handlershared.OrderErrorRules, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// EditOrderItems 对已保存订单重放草稿动作
func (h *Handler) EditOrderItems(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req DraftActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, totals, err := h.OrderService.EditOrder(c.Request.Context(), id, req.Actions, currentAdminID(c))
	if err != nil {
		respondMapped(c, err, handlershared.OrderErrorRules, "error.order_update_failed")
		return
	}
	response.Success(c, gin.H{
		"order":  order,
		"totals": totals,
	})
}

// RecordOrderPayment 登记订单收款
func (h *Handler) RecordOrderPayment(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, totals, err := h.OrderService.RecordPayment(c.Request.Context(), id, req.Amount, currentAdminID(c))
	if err != nil {
		respondMapped(c, err, handlershared.OrderErrorRules, "error.order_update_failed")
		return
	}
	response.Success(c, gin.H{
		"order":         order,
		"totals":        totals,
		"payment_state": order.PaymentState(),
	})
}

// ResendOrderNotification 手动重发下单通知
func (h *Handler) ResendOrderNotification(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	sent, queued, err := h.OrderService.Resend(c.Request.Context(), id)
	if err != nil {
		respondMapped(c, err, handlershared.ConcatMappedErrors(notifyErrorRules, handlershared.OrderErrorRules), "error.notify_failed")
		return
	}
	response.Success(c, gin.H{
		"notification_sent":   sent,
		"notification_queued": queued,
	})
}

// GetOrderInvoice 下载订单发票 PDF
func (h *Handler) GetOrderInvoice(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	detail, err := h.OrderService.GetOrder(id)
	if err != nil {
		respondMapped(c, err, handlershared.OrderErrorRules, "error.order_fetch_failed")
		return
	}
	pdf, err := h.InvoiceService.RenderCateringOrder(detail.Order)
	if err != nil {
		respondError(c, response.CodeInternal, "error.invoice_render_failed", err)
		return
	}
	writePDF(c, fmt.Sprintf("invoice-%s.pdf", detail.Order.OrderNo), pdf)
}

func writePDF(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", body)
}
