//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	tables := models.AllModels()
	_ = db.Migrator().DropTable(tables...)
	if err := db.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(tables...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresCateringOrderSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCateringOrderRepository(db)

	for _, order := range []*models.CateringOrder{
		newCateringOrder("PG1", constants.OrderStatusPending, "2026-10-20", "100", "40"),
		newCateringOrder("PG2", constants.OrderStatusConfirmed, "2026-10-21", "80", "0"),
	} {
		if err := repo.Create(order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	rows, total, err := repo.List(CateringOrderListFilter{Search: "asha pg2"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].OrderNo != "PG2" {
		t.Fatalf("search want PG2 got total=%d rows=%+v", total, rows)
	}

	got, err := repo.GetByOrderNo("PG1")
	if err != nil || got == nil {
		t.Fatalf("get by order no failed: %v", err)
	}
	if len(got.Items) != 1 || got.PendingBalance.String() != "40.00" {
		t.Fatalf("json items or money columns not persisted: %+v", got)
	}
}

func TestPostgresReportQueries(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	orders := NewCateringOrderRepository(db)
	repo := NewReportRepository(db)

	fixtures := []*models.CateringOrder{
		newCateringOrder("R1", constants.OrderStatusConfirmed, "2026-10-20", "100", "40"),
		newCateringOrder("R2", constants.OrderStatusDelivered, "2026-10-20", "50", "0"),
		newCateringOrder("R3", constants.OrderStatusCanceled, "2026-10-21", "70", "70"),
	}
	for _, order := range fixtures {
		if err := orders.Create(order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	expense := &models.Expense{Category: constants.ExpenseCategoryIngredients, Amount: money("30"), SpentOn: day("2026-10-20")}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("create expense failed: %v", err)
	}

	startAt := day("2026-10-01")
	endAt := day("2026-11-01")

	overview, err := repo.GetOverview(startAt, endAt)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.CateringOrders != 2 || overview.CanceledOrders != 1 {
		t.Fatalf("overview counts mismatch: %+v", overview)
	}
	if overview.CateringRevenue != 150 || overview.Expenses != 30 || overview.PendingBalanceTotal != 40 {
		t.Fatalf("overview sums mismatch: %+v", overview)
	}

	days, err := repo.GetRevenueByDay(startAt, endAt)
	if err != nil {
		t.Fatalf("revenue by day failed: %v", err)
	}
	if len(days) != 1 || days[0].Day != "2026-10-20" || days[0].CateringOrders != 2 {
		t.Fatalf("revenue by day mismatch: %+v", days)
	}

	categories, err := repo.GetExpensesByCategory(startAt, endAt)
	if err != nil {
		t.Fatalf("expenses by category failed: %v", err)
	}
	if len(categories) != 1 || categories[0].Category != constants.ExpenseCategoryIngredients || categories[0].Total != 30 {
		t.Fatalf("expense categories mismatch: %+v", categories)
	}

	pending, err := repo.ListPendingBalances(10)
	if err != nil {
		t.Fatalf("pending balances failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OrderNo != "R1" {
		t.Fatalf("pending balances want R1 got %+v", pending)
	}
}
