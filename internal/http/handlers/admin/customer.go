package admin

import (
	"errors"
	"strings"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerNoteRequest 客户备注更新请求
type CustomerNoteRequest struct {
	Email string `json:"email"`
	Note  string `json:"note"`
}

// ListCustomers 客户列表
func (h *Handler) ListCustomers(c *gin.Context) {
	page := handlershared.QueryPagination(c)
	customers, total, err := h.CustomerService.List(repository.CustomerListFilter{
		Pagination: page,
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.customer_fetch_failed", err)
		return
	}
	handlershared.RespondPage(c, customers, page, total)
}

// LookupCustomer 按手机号查找老客户，供接单时回填
func (h *Handler) LookupCustomer(c *gin.Context) {
	phone := strings.TrimSpace(c.Query("phone"))
	if phone == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	customer, err := h.CustomerService.LookupByPhone(phone)
	if err != nil {
		h.respondCustomerError(c, err)
		return
	}
	response.Success(c, customer)
}

// GetCustomer 客户详情
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	customer, err := h.CustomerService.Get(id)
	if err != nil {
		h.respondCustomerError(c, err)
		return
	}
	response.Success(c, customer)
}

// UpdateCustomerNote 更新客户邮箱与备注
func (h *Handler) UpdateCustomerNote(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	var req CustomerNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	customer, err := h.CustomerService.UpdateNote(id, req.Email, req.Note)
	if err != nil {
		h.respondCustomerError(c, err)
		return
	}
	response.Success(c, customer)
}

func (h *Handler) respondCustomerError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCustomerNotFound) {
		respondError(c, response.CodeNotFound, "error.customer_not_found", nil)
		return
	}
	respondError(c, response.CodeInternal, "error.customer_fetch_failed", err)
}
