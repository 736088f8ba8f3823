package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu       sync.Mutex
	enabled  bool
	messages []OutboundMessage
}

func (n *recordingNotifier) Enabled() bool {
	return n.enabled
}

func (n *recordingNotifier) Send(_ context.Context, msg OutboundMessage) error {
	if !n.enabled {
		return ErrNotifierDisabled
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *recordingNotifier) sent() []OutboundMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]OutboundMessage(nil), n.messages...)
}

type serviceFixture struct {
	db         *gorm.DB
	cfg        *config.Config
	notifier   *recordingNotifier
	settings   *SettingService
	menu       *MenuService
	drafts     *DraftService
	orders     *OrderService
	tiffins    *TiffinService
	deliveries *DeliveryService
	orderRepo  *repository.GormCateringOrderRepository
}

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := &config.Config{
		Order:  config.OrderConfig{TaxRate: 5, Currency: "CAD", DraftTTLMinutes: 60},
		Tiffin: config.TiffinConfig{
			RenewalLeadDays:   3,
			DefaultPeriodDays: 30,
		},
		Notify:  config.NotifyConfig{Locale: "en-US"},
		Invoice: config.InvoiceConfig{BusinessName: "Test Kitchen"},
	}

	orderRepo := repository.NewCateringOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	zoneRepo := repository.NewZoneRepository(db)
	tiffinRepo := repository.NewTiffinRepository(db)

	notifier := &recordingNotifier{enabled: true}
	settings := NewSettingService(repository.NewSettingRepository(db))
	menu := NewMenuService(repository.NewMenuItemRepository(db))
	catalog := menu.Catalog()
	drafts := NewDraftService(cfg, NewMemoryDraftStore(), catalog, settings)
	notifications := NewNotificationService(cfg, notifier, nil, orderRepo, tiffinRepo)

	return &serviceFixture{
		db:         db,
		cfg:        cfg,
		notifier:   notifier,
		settings:   settings,
		menu:       menu,
		drafts:     drafts,
		orders:     NewOrderService(cfg, orderRepo, customerRepo, deliveryRepo, zoneRepo, catalog, drafts, settings, notifications),
		tiffins:    NewTiffinService(cfg, tiffinRepo, orderRepo, customerRepo, zoneRepo, settings, notifications),
		deliveries: NewDeliveryService(zoneRepo, repository.NewDriverRepository(db), deliveryRepo, orderRepo, tiffinRepo, notifications),
		orderRepo:  orderRepo,
	}
}

func (f *serviceFixture) createMenuItem(t *testing.T, name, small, medium, large string) *models.MenuItem {
	t.Helper()
	item, err := f.menu.Create(MenuItemInput{
		Category:    "Curry",
		Name:        name,
		SmallPrice:  small,
		MediumPrice: medium,
		LargePrice:  large,
		IsActive:    true,
	})
	if err != nil {
		t.Fatalf("create menu item failed: %v", err)
	}
	return item
}
