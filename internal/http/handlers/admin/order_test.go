package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/provider"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

func setupAdminOrderHandlerTest(t *testing.T) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_order_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{
		Order: config.OrderConfig{TaxRate: 5, Currency: "CAD", DraftTTLMinutes: 60},
	}
	c := &provider.Container{
		Config:       cfg,
		OrderRepo:    repository.NewCateringOrderRepository(db),
		TiffinRepo:   repository.NewTiffinRepository(db),
		CustomerRepo: repository.NewCustomerRepository(db),
		DeliveryRepo: repository.NewDeliveryRepository(db),
		ZoneRepo:     repository.NewZoneRepository(db),
		MenuItemRepo: repository.NewMenuItemRepository(db),
	}
	c.SettingService = service.NewSettingService(repository.NewSettingRepository(db))
	c.MenuService = service.NewMenuService(c.MenuItemRepo)
	catalog := c.MenuService.Catalog()
	c.NotificationService = service.NewNotificationService(cfg, service.NewGatewayNotifier(cfg.Notify), nil, c.OrderRepo, c.TiffinRepo)
	c.DraftService = service.NewDraftService(cfg, service.NewMemoryDraftStore(), catalog, c.SettingService)
	c.OrderService = service.NewOrderService(
		cfg,
		c.OrderRepo,
		c.CustomerRepo,
		c.DeliveryRepo,
		c.ZoneRepo,
		catalog,
		c.DraftService,
		c.SettingService,
		c.NotificationService,
	)
	c.TiffinService = service.NewTiffinService(
		cfg,
		c.TiffinRepo,
		c.OrderRepo,
		c.CustomerRepo,
		c.ZoneRepo,
		c.SettingService,
		c.NotificationService,
	)
	c.InvoiceService = service.NewInvoiceService(cfg, c.SettingService)
	return New(c)
}

func call(t *testing.T, handler gin.HandlerFunc, method, target string, body interface{}, params gin.Params, adminID uint) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	if adminID > 0 {
		c.Set("admin_id", adminID)
	}
	handler(c)

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestDraftToOrderFlow(t *testing.T) {
	h := setupAdminOrderHandlerTest(t)

	created := call(t, h.CreateMenuItem, http.MethodPost, "/api/v1/admin/menu-items", MenuItemRequest{
		Category:    "Curry",
		Name:        "Butter Chicken",
		MediumPrice: "12.50",
	}, nil, 1)
	if created.StatusCode != 0 {
		t.Fatalf("create menu item failed: %d %s", created.StatusCode, created.Msg)
	}
	var item models.MenuItem
	if err := json.Unmarshal(created.Data, &item); err != nil || item.ID == 0 {
		t.Fatalf("decode menu item failed: %v", err)
	}

	draftResp := call(t, h.CreateDraft, http.MethodPost, "/api/v1/admin/drafts", nil, nil, 1)
	if draftResp.StatusCode != 0 {
		t.Fatalf("create draft failed: %d %s", draftResp.StatusCode, draftResp.Msg)
	}
	var view service.DraftView
	if err := json.Unmarshal(draftResp.Data, &view); err != nil || view.ID == "" {
		t.Fatalf("decode draft failed: %v", err)
	}
	params := gin.Params{{Key: "id", Value: view.ID}}

	rejected := call(t, h.ApplyDraftActions, http.MethodPost, "/api/v1/admin/drafts/"+view.ID+"/actions", map[string]interface{}{
		"actions": []map[string]interface{}{{"type": "add_item", "item_id": item.ID, "size": "large", "quantity": 1}},
	}, params, 1)
	if rejected.StatusCode != 400 {
		t.Fatalf("unavailable size should be rejected, got %d", rejected.StatusCode)
	}

	applied := call(t, h.ApplyDraftActions, http.MethodPost, "/api/v1/admin/drafts/"+view.ID+"/actions", map[string]interface{}{
		"actions": []map[string]interface{}{
			{"type": "add_item", "item_id": item.ID, "size": "medium", "quantity": 2},
			{"type": "set_payment_field", "field": "advance_paid", "value": "10"},
		},
	}, params, 1)
	if applied.StatusCode != 0 {
		t.Fatalf("apply actions failed: %d %s", applied.StatusCode, applied.Msg)
	}
	if err := json.Unmarshal(applied.Data, &view); err != nil {
		t.Fatalf("decode draft failed: %v", err)
	}
	if view.Totals.Total.StringFixed(2) != "26.25" {
		t.Fatalf("unexpected draft total: %s", view.Totals.Total)
	}

	submitted := call(t, h.SubmitOrder, http.MethodPost, "/api/v1/admin/orders", map[string]interface{}{
		"draft_id":         view.ID,
		"customer":         map[string]string{"name": "Asha Patel", "phone": "416-555-0101"},
		"delivery_address": "12 King St W",
		"delivery_date":    time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	}, nil, 1)
	if submitted.StatusCode != 0 {
		t.Fatalf("submit order failed: %d %s", submitted.StatusCode, submitted.Msg)
	}
	var result service.SubmitResult
	if err := json.Unmarshal(submitted.Data, &result); err != nil || result.OrderNo == "" {
		t.Fatalf("decode submit result failed: %v", err)
	}
	if result.Totals.PendingBalance.StringFixed(2) != "16.25" {
		t.Fatalf("unexpected pending balance: %s", result.Totals.PendingBalance)
	}

	listed := call(t, h.ListOrders, http.MethodGet, "/api/v1/admin/orders?payment_state=pending", nil, nil, 1)
	if listed.StatusCode != 0 || listed.Pagination.Total != 1 {
		t.Fatalf("expected one pending order, got code=%d total=%d", listed.StatusCode, listed.Pagination.Total)
	}

	again := call(t, h.GetDraft, http.MethodGet, "/api/v1/admin/drafts/"+view.ID, nil, params, 1)
	if again.StatusCode != 404 {
		t.Fatalf("submitted draft should be consumed, got %d", again.StatusCode)
	}
}

func TestSubmitOrderRequiresItems(t *testing.T) {
	h := setupAdminOrderHandlerTest(t)
	resp := call(t, h.SubmitOrder, http.MethodPost, "/api/v1/admin/orders", map[string]interface{}{
		"customer":         map[string]string{"name": "Asha", "phone": "4165550101"},
		"delivery_address": "12 King St W",
		"delivery_date":    time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	}, nil, 1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 without items, got %d", resp.StatusCode)
	}
}

func TestSubmitOrderWithInlineItems(t *testing.T) {
	h := setupAdminOrderHandlerTest(t)

	created := call(t, h.CreateMenuItem, http.MethodPost, "/api/v1/admin/menu-items", MenuItemRequest{
		Category:    "Curry",
		Name:        "Butter Chicken",
		MediumPrice: "12.50",
	}, nil, 1)
	var item models.MenuItem
	if err := json.Unmarshal(created.Data, &item); err != nil || item.ID == 0 {
		t.Fatalf("decode menu item failed: %v", err)
	}

	body := map[string]interface{}{
		"customer":         map[string]string{"name": "Asha Patel", "phone": "416-555-0101"},
		"delivery_address": "12 King St W",
		"delivery_date":    time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
		"items":            []map[string]interface{}{{"item_id": item.ID, "size": "medium", "quantity": 2}},
		"custom_items":     []map[string]interface{}{{"name": "Naan tray", "price": "10"}},
		"delivery_charge":  "5",
		"advance_paid":     "20",
		"discount":         "1",
		"tax_exempt":       true,
		"note":             "Ring twice",
	}
	submitted := call(t, h.SubmitOrder, http.MethodPost, "/api/v1/admin/orders", body, nil, 1)
	if submitted.StatusCode != 0 {
		t.Fatalf("inline submit failed: %d %s", submitted.StatusCode, submitted.Msg)
	}
	var result service.SubmitResult
	if err := json.Unmarshal(submitted.Data, &result); err != nil || result.OrderID == 0 {
		t.Fatalf("decode submit result failed: %v", err)
	}
	// 免税；优惠只冲减待收
	if got := result.Totals.Total.StringFixed(2); got != "40.00" {
		t.Fatalf("total = %s, want 40.00", got)
	}
	if got := result.Totals.PendingBalance.StringFixed(2); got != "19.00" {
		t.Fatalf("pending = %s, want 19.00", got)
	}

	negative := map[string]interface{}{}
	for k, v := range body {
		negative[k] = v
	}
	negative["advance_paid"] = "-3"
	if resp := call(t, h.SubmitOrder, http.MethodPost, "/api/v1/admin/orders", negative, nil, 1); resp.StatusCode != 400 {
		t.Fatalf("negative amount should be rejected, got %d", resp.StatusCode)
	}

	draftResp := call(t, h.CreateDraft, http.MethodPost, "/api/v1/admin/drafts", nil, nil, 1)
	var view service.DraftView
	if err := json.Unmarshal(draftResp.Data, &view); err != nil || view.ID == "" {
		t.Fatalf("decode draft failed: %v", err)
	}
	mixed := map[string]interface{}{}
	for k, v := range body {
		mixed[k] = v
	}
	mixed["draft_id"] = view.ID
	if resp := call(t, h.SubmitOrder, http.MethodPost, "/api/v1/admin/orders", mixed, nil, 1); resp.StatusCode != 400 {
		t.Fatalf("draft_id with inline items should be rejected, got %d", resp.StatusCode)
	}

	listed := call(t, h.ListOrders, http.MethodGet, "/api/v1/admin/orders", nil, nil, 1)
	if listed.Pagination.Total != 1 {
		t.Fatalf("expected one order, got %d", listed.Pagination.Total)
	}
}

func TestDraftHiddenFromOtherAdmins(t *testing.T) {
	h := setupAdminOrderHandlerTest(t)
	draftResp := call(t, h.CreateDraft, http.MethodPost, "/api/v1/admin/drafts", nil, nil, 1)
	var view service.DraftView
	if err := json.Unmarshal(draftResp.Data, &view); err != nil || view.ID == "" {
		t.Fatalf("decode draft failed: %v", err)
	}
	params := gin.Params{{Key: "id", Value: view.ID}}

	if resp := call(t, h.GetDraft, http.MethodGet, "/api/v1/admin/drafts/"+view.ID, nil, params, 2); resp.StatusCode != 404 {
		t.Fatalf("other admin get: expected 404, got %d", resp.StatusCode)
	}
	if resp := call(t, h.DiscardDraft, http.MethodDelete, "/api/v1/admin/drafts/"+view.ID, nil, params, 2); resp.StatusCode != 404 {
		t.Fatalf("other admin discard: expected 404, got %d", resp.StatusCode)
	}
	submitted := call(t, h.SubmitOrder, http.MethodPost, "/api/v1/admin/orders", map[string]interface{}{
		"draft_id":         view.ID,
		"customer":         map[string]string{"name": "Asha", "phone": "4165550101"},
		"delivery_address": "12 King St W",
		"delivery_date":    time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	}, nil, 2)
	if submitted.StatusCode != 404 {
		t.Fatalf("other admin submit: expected 404, got %d", submitted.StatusCode)
	}
	if resp := call(t, h.GetDraft, http.MethodGet, "/api/v1/admin/drafts/"+view.ID, nil, params, 1); resp.StatusCode != 0 {
		t.Fatalf("owner should still see the draft, got %d", resp.StatusCode)
	}
}

func TestCreateDraftRequiresAdmin(t *testing.T) {
	h := setupAdminOrderHandlerTest(t)
	resp := call(t, h.CreateDraft, http.MethodPost, "/api/v1/admin/drafts", nil, nil, 0)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without admin, got %d", resp.StatusCode)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	h := setupAdminOrderHandlerTest(t)
	resp := call(t, h.GetOrder, http.MethodGet, "/api/v1/admin/orders/99", nil, gin.Params{{Key: "id", Value: "99"}}, 1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp = call(t, h.GetOrder, http.MethodGet, "/api/v1/admin/orders/abc", nil, gin.Params{{Key: "id", Value: "abc"}}, 1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for bad id, got %d", resp.StatusCode)
	}
}
