package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/constants"
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
}

func setupPublicHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{Order: config.OrderConfig{TaxRate: 5, Currency: "CAD"}}
	orderRepo := repository.NewCateringOrderRepository(db)
	tiffinRepo := repository.NewTiffinRepository(db)
	h := New(&provider.Container{
		Config:          cfg,
		SettingService:  service.NewSettingService(repository.NewSettingRepository(db)),
		MenuService:     service.NewMenuService(repository.NewMenuItemRepository(db)),
		OrderRepo:       orderRepo,
		DeliveryService: service.NewDeliveryService(
			repository.NewZoneRepository(db),
			repository.NewDriverRepository(db),
			repository.NewDeliveryRepository(db),
			orderRepo,
			tiffinRepo,
			nil,
		),
	})
	return h, db
}

func serve(t *testing.T, handler gin.HandlerFunc, target string) envelope {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	handler(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected http 200, got %d", w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestGetConfigUsesStoredSettings(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)
	if _, err := h.SettingService.Update(constants.SettingKeyOrderConfig, map[string]interface{}{
		constants.SettingFieldTaxRate:  13.0,
		constants.SettingFieldCurrency: "usd",
	}); err != nil {
		t.Fatalf("update order config failed: %v", err)
	}
	if _, err := h.SettingService.Update(constants.SettingKeyBusinessConfig, map[string]interface{}{
		constants.SettingFieldBusinessName: " Spice Route ",
	}); err != nil {
		t.Fatalf("update business config failed: %v", err)
	}

	resp := serve(t, h.GetConfig, "/api/v1/public/config")
	if resp.StatusCode != 0 {
		t.Fatalf("expected success, got %d %s", resp.StatusCode, resp.Msg)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data["tax_rate"] != "13" || data["currency"] != "USD" || data["business_name"] != "Spice Route" {
		t.Fatalf("unexpected config payload: %+v", data)
	}
}

func TestGetConfigFallsBackToConfigDefaults(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	resp := serve(t, h.GetConfig, "/api/v1/public/config")
	var data map[string]interface{}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data["tax_rate"] != "5" || data["currency"] != "CAD" {
		t.Fatalf("unexpected defaults: %+v", data)
	}
}

func TestGetMenuGroupsActiveItems(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)
	inputs := []service.MenuItemInput{
		{Category: "Curry", Name: "Chana Masala", SmallPrice: "7", IsActive: true},
		{Category: "Curry", Name: "Palak Paneer", MediumPrice: "11", IsActive: true},
		{Category: "Bread", Name: "Garlic Naan", SmallPrice: "2", IsActive: false},
	}
	for _, input := range inputs {
		if _, err := h.MenuService.Create(input); err != nil {
			t.Fatalf("create menu item failed: %v", err)
		}
	}

	resp := serve(t, h.GetMenu, "/api/v1/public/menu")
	if resp.StatusCode != 0 {
		t.Fatalf("expected success, got %d %s", resp.StatusCode, resp.Msg)
	}
	var groups []service.MenuCategory
	if err := json.Unmarshal(resp.Data, &groups); err != nil {
		t.Fatalf("decode menu failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Category != "Curry" || len(groups[0].Items) != 2 {
		t.Fatalf("unexpected menu groups: %+v", groups)
	}
}

func TestTrackOrder(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)
	order := &models.CateringOrder{
		OrderNo:       "CT20261016001",
		CustomerID:    1,
		CustomerName:  "Asha Patel",
		CustomerPhone: "+14165550101",
		DeliveryDate:  time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		Status:        constants.OrderStatusConfirmed,
	}
	if err := h.OrderRepo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	cases := []struct {
		name   string
		target string
		code   int
	}{
		{name: "missing phone", target: "/api/v1/public/track?order_no=CT20261016001", code: 400},
		{name: "wrong phone", target: "/api/v1/public/track?order_no=CT20261016001&phone=9999", code: 404},
		{name: "unknown order", target: "/api/v1/public/track?order_no=CT0&phone=0101", code: 404},
		{name: "match", target: "/api/v1/public/track?order_no=ct20261016001&phone=0101", code: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serve(t, h.TrackOrder, tc.target)
			if resp.StatusCode != tc.code {
				t.Fatalf("want status_code %d got %d (%s)", tc.code, resp.StatusCode, resp.Msg)
			}
			if tc.code != 0 {
				return
			}
			var view service.TrackingView
			if err := json.Unmarshal(resp.Data, &view); err != nil {
				t.Fatalf("decode tracking failed: %v", err)
			}
			if view.Kind != constants.DeliverySourceCatering || view.CustomerName != "A*********" {
				t.Fatalf("unexpected tracking view: %+v", view)
			}
		})
	}
}
