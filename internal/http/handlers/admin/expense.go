package admin

import (
	"strings"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// ExpenseRequest 支出登记请求
type ExpenseRequest struct {
	StoreID  uint   `json:"store_id" binding:"required"`
	Category string `json:"category" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	SpentOn  string `json:"spent_on" binding:"required"`
	Vendor   string `json:"vendor"`
	Note     string `json:"note"`
}

// ListExpenses 支出列表
func (h *Handler) ListExpenses(c *gin.Context) {
	page := handlershared.QueryPagination(c)
	from, okFrom := handlershared.ParseQueryDate(c, "from")
	to, okTo := handlershared.ParseQueryDate(c, "to")
	if !okFrom || !okTo {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return
	}
	expenses, total, err := h.ExpenseService.List(repository.ExpenseListFilter{
		Pagination: page,
		StoreID:    handlershared.ParseQueryUint(c, "store_id"),
		Category:   strings.TrimSpace(c.Query("category")),
		From:       from,
		To:         to,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	handlershared.RespondPage(c, expenses, page, total)
}

// GetExpense 支出详情
func (h *Handler) GetExpense(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	expense, err := h.ExpenseService.Get(id)
	if err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, expense)
}

// CreateExpense 登记支出
func (h *Handler) CreateExpense(c *gin.Context) {
	h.saveExpense(c, 0)
}

// UpdateExpense 修改支出
func (h *Handler) UpdateExpense(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	h.saveExpense(c, id)
}

func (h *Handler) saveExpense(c *gin.Context, id uint) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	expense, err := h.ExpenseService.Save(id, service.ExpenseInput{
		StoreID:  req.StoreID,
		Category: req.Category,
		Amount:   req.Amount,
		SpentOn:  req.SpentOn,
		Vendor:   req.Vendor,
		Note:     req.Note,
		AdminID:  currentAdminID(c),
	})
	if err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, expense)
}

// DeleteExpense 删除支出
func (h *Handler) DeleteExpense(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		return
	}
	if err := h.ExpenseService.Delete(id); err != nil {
		respondMapped(c, err, handlershared.StoreErrorRules, "error.internal")
		return
	}
	response.Success(c, nil)
}
