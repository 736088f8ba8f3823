package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	reportCacheTTL      = 45 * time.Second
	reportCustomMaxDays = 366
	pendingBalanceLimit = 200
)

// ReportService 经营报表
// 说明：营收按配送日期（餐饮）与开始日期（包月）归集，取消的订单不计入。
type ReportService struct {
	repo           repository.ReportRepository
	settingService *SettingService
	now            func() time.Time
}

// NewReportService 创建报表服务
func NewReportService(repo repository.ReportRepository, settingService *SettingService) *ReportService {
	return &ReportService{repo: repo, settingService: settingService, now: time.Now}
}

// ReportQueryInput 报表查询输入；Range 为 today/7d/30d/month/custom
type ReportQueryInput struct {
	Range        string
	From         string
	To           string
	ForceRefresh bool
}

// ReportOverview 报表总览
type ReportOverview struct {
	From                string `json:"from"`
	To                  string `json:"to"`
	CateringOrders      int64  `json:"catering_orders"`
	CanceledOrders      int64  `json:"canceled_orders"`
	TiffinSubscriptions int64  `json:"tiffin_subscriptions"`
	CateringRevenue     string `json:"catering_revenue"`
	TiffinRevenue       string `json:"tiffin_revenue"`
	Revenue             string `json:"revenue"`
	TaxCollected        string `json:"tax_collected"`
	Expenses            string `json:"expenses"`
	Net                 string `json:"net"`
	PendingBalanceTotal string `json:"pending_balance_total"`
	OverpaidOrders      int64  `json:"overpaid_orders"`
}

// ReportRevenueDay 每日营收
type ReportRevenueDay struct {
	Day             string `json:"day"`
	CateringOrders  int64  `json:"catering_orders"`
	CateringRevenue string `json:"catering_revenue"`
	TiffinOrders    int64  `json:"tiffin_orders"`
	TiffinRevenue   string `json:"tiffin_revenue"`
	Revenue         string `json:"revenue"`
}

// ReportExpenseCategory 支出分类汇总
type ReportExpenseCategory struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Total    string `json:"total"`
}

// ReportPendingBalance 待收款订单
type ReportPendingBalance struct {
	SourceType     string `json:"source_type"`
	SourceID       uint   `json:"source_id"`
	OrderNo        string `json:"order_no"`
	CustomerName   string `json:"customer_name"`
	CustomerPhone  string `json:"customer_phone"`
	DueDate        string `json:"due_date"`
	TotalAmount    string `json:"total_amount"`
	AdvancePaid    string `json:"advance_paid"`
	PendingBalance string `json:"pending_balance"`
}

type reportWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
}

// GetOverview 总览：营收、税额、支出、净额与待收款
func (s *ReportService) GetOverview(ctx context.Context, input ReportQueryInput) (*ReportOverview, error) {
	window, err := resolveReportWindow(input, s.now())
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("report:overview:%s:%d:%d", window.rangeKey, window.startAt.Unix(), window.endAt.Unix())
	if !input.ForceRefresh {
		var cached ReportOverview
		if hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached); cacheErr == nil && hit {
			return &cached, nil
		}
	}

	row, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	catering := decimalFromFloat(row.CateringRevenue)
	tiffin := decimalFromFloat(row.TiffinRevenue)
	revenue := catering.Add(tiffin)
	tax := decimalFromFloat(row.CateringTax).Add(decimalFromFloat(row.TiffinTax))
	expenses := decimalFromFloat(row.Expenses)

	overview := &ReportOverview{
		From:                formatDate(window.startAt),
		To:                  formatDate(window.endAt.AddDate(0, 0, -1)),
		CateringOrders:      row.CateringOrders,
		CanceledOrders:      row.CanceledOrders,
		TiffinSubscriptions: row.TiffinSubscriptions,
		CateringRevenue:     catering.StringFixed(2),
		TiffinRevenue:       tiffin.StringFixed(2),
		Revenue:             revenue.StringFixed(2),
		TaxCollected:        tax.StringFixed(2),
		Expenses:            expenses.StringFixed(2),
		Net:                 revenue.Sub(expenses).StringFixed(2),
		PendingBalanceTotal: decimalFromFloat(row.PendingBalanceTotal).StringFixed(2),
		OverpaidOrders:      row.OverpaidOrders,
	}
	_ = cache.SetJSON(ctx, cacheKey, overview, reportCacheTTL)
	return overview, nil
}

// GetRevenueByDay 每日营收，区间内无数据的日期补零
func (s *ReportService) GetRevenueByDay(input ReportQueryInput) ([]ReportRevenueDay, error) {
	window, err := resolveReportWindow(input, s.now())
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetRevenueByDay(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]repository.ReportRevenueDayRow, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row
	}
	out := make([]ReportRevenueDay, 0, len(rows))
	for day := window.startAt; day.Before(window.endAt); day = day.AddDate(0, 0, 1) {
		key := formatDate(day)
		row := byDay[key]
		catering := decimalFromFloat(row.CateringRevenue)
		tiffin := decimalFromFloat(row.TiffinRevenue)
		out = append(out, ReportRevenueDay{
			Day:             key,
			CateringOrders:  row.CateringOrders,
			CateringRevenue: catering.StringFixed(2),
			TiffinOrders:    row.TiffinOrders,
			TiffinRevenue:   tiffin.StringFixed(2),
			Revenue:         catering.Add(tiffin).StringFixed(2),
		})
	}
	return out, nil
}

// GetExpensesByCategory 支出分类汇总
func (s *ReportService) GetExpensesByCategory(input ReportQueryInput) ([]ReportExpenseCategory, error) {
	window, err := resolveReportWindow(input, s.now())
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetExpensesByCategory(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	out := make([]ReportExpenseCategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReportExpenseCategory{
			Category: row.Category,
			Count:    row.Count,
			Total:    decimalFromFloat(row.Total).StringFixed(2),
		})
	}
	return out, nil
}

// ListPendingBalances 待收款订单（餐饮 + 包月）
func (s *ReportService) ListPendingBalances() ([]ReportPendingBalance, error) {
	rows, err := s.repo.ListPendingBalances(pendingBalanceLimit)
	if err != nil {
		return nil, err
	}
	out := make([]ReportPendingBalance, 0, len(rows))
	for _, row := range rows {
		out = append(out, ReportPendingBalance{
			SourceType:     row.SourceType,
			SourceID:       row.SourceID,
			OrderNo:        row.OrderNo,
			CustomerName:   row.CustomerName,
			CustomerPhone:  row.CustomerPhone,
			DueDate:        formatDate(row.DueDate),
			TotalAmount:    decimalFromFloat(row.TotalAmount).StringFixed(2),
			AdvancePaid:    decimalFromFloat(row.AdvancePaid).StringFixed(2),
			PendingBalance: decimalFromFloat(row.PendingBalance).StringFixed(2),
		})
	}
	return out, nil
}

func resolveReportWindow(input ReportQueryInput, now time.Time) (reportWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = "30d"
		if input.From != "" || input.To != "" {
			rangeKey = "custom"
		}
	}
	today := dateOf(now)
	window := reportWindow{rangeKey: rangeKey}
	switch rangeKey {
	case "today":
		window.startAt = today
		window.endAt = today.AddDate(0, 0, 1)
	case "7d":
		window.startAt = today.AddDate(0, 0, -6)
		window.endAt = today.AddDate(0, 0, 1)
	case "30d":
		window.startAt = today.AddDate(0, 0, -29)
		window.endAt = today.AddDate(0, 0, 1)
	case "month":
		window.startAt = today.AddDate(0, 0, 1-today.Day())
		window.endAt = window.startAt.AddDate(0, 1, 0)
	case "custom":
		from, err := parseDate(input.From)
		if err != nil {
			return reportWindow{}, ErrInvalidDateRange
		}
		to, err := parseDate(input.To)
		if err != nil {
			return reportWindow{}, ErrInvalidDateRange
		}
		if to.Before(from) || to.Sub(from) > 24*time.Hour*reportCustomMaxDays {
			return reportWindow{}, ErrInvalidDateRange
		}
		window.startAt = from
		window.endAt = to.AddDate(0, 0, 1)
	default:
		return reportWindow{}, ErrInvalidDateRange
	}
	return window, nil
}

func decimalFromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}
