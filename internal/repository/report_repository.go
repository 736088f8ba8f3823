package repository

import (
	"fmt"
	"sort"
	"time"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 财务报表聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则；时间区间为 [startAt, endAt)。
type ReportRepository interface {
	GetOverview(startAt, endAt time.Time) (ReportOverviewRow, error)
	GetRevenueByDay(startAt, endAt time.Time) ([]ReportRevenueDayRow, error)
	GetExpensesByCategory(startAt, endAt time.Time) ([]ReportExpenseCategoryRow, error)
	ListPendingBalances(limit int) ([]ReportPendingBalanceRow, error)
}

// ReportOverviewRow 总览原始统计结果
type ReportOverviewRow struct {
	CateringOrders      int64
	CanceledOrders      int64
	CateringRevenue     float64
	CateringTax         float64
	TiffinSubscriptions int64
	TiffinRevenue       float64
	TiffinTax           float64
	Expenses            float64
	PendingBalanceTotal float64
	OverpaidOrders      int64
}

// ReportRevenueDayRow 按天营收
type ReportRevenueDayRow struct {
	Day             string
	CateringOrders  int64
	CateringRevenue float64
	TiffinOrders    int64
	TiffinRevenue   float64
}

// ReportExpenseCategoryRow 支出分类汇总
type ReportExpenseCategoryRow struct {
	Category string
	Count    int64
	Total    float64
}

// ReportPendingBalanceRow 待收款订单
type ReportPendingBalanceRow struct {
	SourceType     string
	SourceID       uint
	OrderNo        string
	CustomerName   string
	CustomerPhone  string
	DueDate        time.Time
	TotalAmount    float64
	AdvancePaid    float64
	PendingBalance float64
}

// GormReportRepository GORM 报表实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) cateringBase(startAt, endAt time.Time) *gorm.DB {
	return r.db.Model(&models.CateringOrder{}).
		Where("delivery_date >= ? AND delivery_date < ?", startAt, endAt)
}

func (r *GormReportRepository) tiffinBase(startAt, endAt time.Time) *gorm.DB {
	return r.db.Model(&models.TiffinOrder{}).
		Where("start_date >= ? AND start_date < ? AND status <> ?", startAt, endAt, constants.TiffinStatusCanceled)
}

// GetOverview 获取总览统计，营收不含已取消订单
func (r *GormReportRepository) GetOverview(startAt, endAt time.Time) (ReportOverviewRow, error) {
	result := ReportOverviewRow{}
	notCanceled := "status <> ?"

	if err := r.cateringBase(startAt, endAt).Where(notCanceled, constants.OrderStatusCanceled).
		Count(&result.CateringOrders).Error; err != nil {
		return result, err
	}
	if err := r.cateringBase(startAt, endAt).Where("status = ?", constants.OrderStatusCanceled).
		Count(&result.CanceledOrders).Error; err != nil {
		return result, err
	}
	if err := r.cateringBase(startAt, endAt).Where(notCanceled, constants.OrderStatusCanceled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.CateringRevenue).Error; err != nil {
		return result, err
	}
	if err := r.cateringBase(startAt, endAt).Where(notCanceled, constants.OrderStatusCanceled).
		Select("COALESCE(SUM(tax_amount), 0)").
		Scan(&result.CateringTax).Error; err != nil {
		return result, err
	}
	if err := r.cateringBase(startAt, endAt).Where(notCanceled+" AND pending_balance > 0", constants.OrderStatusCanceled).
		Select("COALESCE(SUM(pending_balance), 0)").
		Scan(&result.PendingBalanceTotal).Error; err != nil {
		return result, err
	}
	if err := r.cateringBase(startAt, endAt).Where(notCanceled+" AND pending_balance < 0", constants.OrderStatusCanceled).
		Count(&result.OverpaidOrders).Error; err != nil {
		return result, err
	}

	if err := r.tiffinBase(startAt, endAt).Count(&result.TiffinSubscriptions).Error; err != nil {
		return result, err
	}
	if err := r.tiffinBase(startAt, endAt).Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TiffinRevenue).Error; err != nil {
		return result, err
	}
	if err := r.tiffinBase(startAt, endAt).Select("COALESCE(SUM(tax_amount), 0)").
		Scan(&result.TiffinTax).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Expense{}).
		Where("spent_on >= ? AND spent_on < ?", startAt, endAt).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&result.Expenses).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetRevenueByDay 按天汇总营收（餐饮按配送日，包月按开始日）
func (r *GormReportRepository) GetRevenueByDay(startAt, endAt time.Time) ([]ReportRevenueDayRow, error) {
	type dayRow struct {
		Day   string
		Count int64
		Total float64
	}

	var cateringRows []dayRow
	cateringDay := dayExpr(r.db, "delivery_date")
	if err := r.cateringBase(startAt, endAt).
		Select(fmt.Sprintf("%s as day, COUNT(*) as count, COALESCE(SUM(total_amount), 0) as total", cateringDay)).
		Where("status <> ?", constants.OrderStatusCanceled).
		Group(cateringDay).
		Order("day asc").
		Scan(&cateringRows).Error; err != nil {
		return nil, err
	}

	var tiffinRows []dayRow
	tiffinDay := dayExpr(r.db, "start_date")
	if err := r.tiffinBase(startAt, endAt).
		Select(fmt.Sprintf("%s as day, COUNT(*) as count, COALESCE(SUM(total_amount), 0) as total", tiffinDay)).
		Group(tiffinDay).
		Order("day asc").
		Scan(&tiffinRows).Error; err != nil {
		return nil, err
	}

	byDay := make(map[string]*ReportRevenueDayRow, len(cateringRows)+len(tiffinRows))
	get := func(day string) *ReportRevenueDayRow {
		row, ok := byDay[day]
		if !ok {
			row = &ReportRevenueDayRow{Day: day}
			byDay[day] = row
		}
		return row
	}
	for _, item := range cateringRows {
		row := get(item.Day)
		row.CateringOrders = item.Count
		row.CateringRevenue = item.Total
	}
	for _, item := range tiffinRows {
		row := get(item.Day)
		row.TiffinOrders = item.Count
		row.TiffinRevenue = item.Total
	}

	result := make([]ReportRevenueDayRow, 0, len(byDay))
	for _, row := range byDay {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day < result[j].Day })
	return result, nil
}

// GetExpensesByCategory 按分类汇总支出
func (r *GormReportRepository) GetExpensesByCategory(startAt, endAt time.Time) ([]ReportExpenseCategoryRow, error) {
	rows := make([]ReportExpenseCategoryRow, 0)
	if err := r.db.Model(&models.Expense{}).
		Select("category, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("spent_on >= ? AND spent_on < ?", startAt, endAt).
		Group("category").
		Order("total desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingBalances 列出仍有待收余额的订单与订阅，按到期日升序
func (r *GormReportRepository) ListPendingBalances(limit int) ([]ReportPendingBalanceRow, error) {
	if limit <= 0 {
		limit = 100
	}

	var catering []models.CateringOrder
	if err := r.db.Model(&models.CateringOrder{}).
		Where("pending_balance > 0 AND status <> ?", constants.OrderStatusCanceled).
		Order("delivery_date asc").
		Limit(limit).
		Find(&catering).Error; err != nil {
		return nil, err
	}
	var tiffins []models.TiffinOrder
	if err := r.db.Model(&models.TiffinOrder{}).
		Where("pending_balance > 0 AND status <> ?", constants.TiffinStatusCanceled).
		Order("start_date asc").
		Limit(limit).
		Find(&tiffins).Error; err != nil {
		return nil, err
	}

	rows := make([]ReportPendingBalanceRow, 0, len(catering)+len(tiffins))
	for _, order := range catering {
		rows = append(rows, ReportPendingBalanceRow{
			SourceType:     constants.DeliverySourceCatering,
			SourceID:       order.ID,
			OrderNo:        order.OrderNo,
			CustomerName:   order.CustomerName,
			CustomerPhone:  order.CustomerPhone,
			DueDate:        order.DeliveryDate,
			TotalAmount:    order.TotalAmount.InexactFloat64(),
			AdvancePaid:    order.AdvancePaid.InexactFloat64(),
			PendingBalance: order.PendingBalance.InexactFloat64(),
		})
	}
	for _, order := range tiffins {
		rows = append(rows, ReportPendingBalanceRow{
			SourceType:     constants.DeliverySourceTiffin,
			SourceID:       order.ID,
			OrderNo:        order.SubscriptionNo,
			CustomerName:   order.CustomerName,
			CustomerPhone:  order.CustomerPhone,
			DueDate:        order.StartDate,
			TotalAmount:    order.TotalAmount.InexactFloat64(),
			AdvancePaid:    order.AdvancePaid.InexactFloat64(),
			PendingBalance: order.PendingBalance.InexactFloat64(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
