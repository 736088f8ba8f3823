package admin

import (
	"errors"
	"strings"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

func parseReportQuery(c *gin.Context) service.ReportQueryInput {
	return service.ReportQueryInput{
		Range:        strings.TrimSpace(c.Query("range")),
		From:         strings.TrimSpace(c.Query("from")),
		To:           strings.TrimSpace(c.Query("to")),
		ForceRefresh: handlershared.ParseQueryBool(c, "refresh"),
	}
}

func respondReportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidDateRange) {
		respondError(c, response.CodeBadRequest, "error.date_range_invalid", nil)
		return
	}
	respondError(c, response.CodeInternal, "error.report_failed", err)
}

// GetReportOverview 营收、支出与净额总览
func (h *Handler) GetReportOverview(c *gin.Context) {
	overview, err := h.ReportService.GetOverview(c.Request.Context(), parseReportQuery(c))
	if err != nil {
		respondReportError(c, err)
		return
	}
	response.Success(c, overview)
}

// GetReportRevenue 按日营收
func (h *Handler) GetReportRevenue(c *gin.Context) {
	rows, err := h.ReportService.GetRevenueByDay(parseReportQuery(c))
	if err != nil {
		respondReportError(c, err)
		return
	}
	response.Success(c, rows)
}

// GetReportExpenses 按类别汇总支出
func (h *Handler) GetReportExpenses(c *gin.Context) {
	rows, err := h.ReportService.GetExpensesByCategory(parseReportQuery(c))
	if err != nil {
		respondReportError(c, err)
		return
	}
	response.Success(c, rows)
}

// GetReportPendingBalances 未结清订单
func (h *Handler) GetReportPendingBalances(c *gin.Context) {
	rows, err := h.ReportService.ListPendingBalances()
	if err != nil {
		respondReportError(c, err)
		return
	}
	response.Success(c, rows)
}
