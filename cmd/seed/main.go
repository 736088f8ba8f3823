package main

import (
	"errors"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.ToDBOptions()); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedOwnerAccount("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}
	if err := models.SeedOrderSettings(cfg.Order.TaxRate, cfg.Order.Currency); err != nil {
		stdLog.Printf("Failed to init default settings: %v", err)
	}

	db := models.DB
	menuService := service.NewMenuService(repository.NewMenuItemRepository(db))
	deliveryService := service.NewDeliveryService(
		repository.NewZoneRepository(db),
		repository.NewDriverRepository(db),
		repository.NewDeliveryRepository(db),
		repository.NewCateringOrderRepository(db),
		repository.NewTiffinRepository(db),
		nil,
	)
	storeService := service.NewStoreService(repository.NewStoreRepository(db), repository.NewStaffRepository(db))

	// 菜单
	categories, err := menuService.ListCategories()
	if err != nil {
		stdLog.Fatalf("Failed to load menu categories: %v", err)
	}
	if len(categories) > 0 {
		stdLog.Printf("Menu already seeded (%d categories)", len(categories))
	} else {
		items := []service.MenuItemInput{
			{Category: "Starters", Name: "Veg Samosa", SmallPrice: "25", MediumPrice: "45", LargePrice: "80", IsVeg: true, IsActive: true, SortOrder: 10},
			{Category: "Starters", Name: "Chicken 65", SmallPrice: "60", MediumPrice: "110", LargePrice: "200", IsActive: true, SortOrder: 20},
			{Category: "Curries", Name: "Paneer Butter Masala", SmallPrice: "45", MediumPrice: "85", LargePrice: "160", IsVeg: true, IsActive: true, SortOrder: 10},
			{Category: "Curries", Name: "Goat Curry", MediumPrice: "130", LargePrice: "240", IsActive: true, SortOrder: 20},
			{Category: "Rice", Name: "Veg Biryani", SmallPrice: "40", MediumPrice: "75", LargePrice: "140", IsVeg: true, IsActive: true, SortOrder: 10},
			{Category: "Rice", Name: "Jeera Rice", SmallPrice: "20", MediumPrice: "35", LargePrice: "65", IsVeg: true, IsActive: true, SortOrder: 20},
			{Category: "Desserts", Name: "Gulab Jamun", SmallPrice: "20", MediumPrice: "38", LargePrice: "70", IsVeg: true, IsActive: true, SortOrder: 10},
		}
		for _, input := range items {
			if _, err := menuService.Create(input); err != nil {
				stdLog.Printf("Failed to create menu item %s: %v", input.Name, err)
				continue
			}
			stdLog.Printf("Created menu item: %s", input.Name)
		}
	}

	// 配送区域
	zones, err := deliveryService.ListZones(false)
	if err != nil {
		stdLog.Fatalf("Failed to load zones: %v", err)
	}
	if len(zones) > 0 {
		stdLog.Printf("Zones already seeded (%d)", len(zones))
	} else {
		for _, input := range []service.ZoneInput{
			{Name: "Downtown", PostalPrefixes: []string{"M5V", "M5J"}, DeliveryCharge: "8", IsActive: true, SortOrder: 10},
			{Name: "Midtown", PostalPrefixes: []string{"M4S", "M4P"}, DeliveryCharge: "12", IsActive: true, SortOrder: 20},
			{Name: "Suburbs", PostalPrefixes: []string{"L5", "L6"}, DeliveryCharge: "20", IsActive: true, SortOrder: 30},
		} {
			if _, err := deliveryService.CreateZone(input); err != nil {
				stdLog.Printf("Failed to create zone %s: %v", input.Name, err)
				continue
			}
			stdLog.Printf("Created zone: %s", input.Name)
		}
	}

	// 门店
	_, err = storeService.SaveStore(0, service.StoreInput{
		Code:       "MAIN",
		Name:       "Main Kitchen",
		Address:    "100 King St W",
		PostalCode: "M5X 1A9",
		IsActive:   true,
	})
	switch {
	case errors.Is(err, service.ErrStoreCodeExists):
		stdLog.Printf("Store already exists: MAIN")
	case err != nil:
		stdLog.Printf("Failed to create store: %v", err)
	default:
		stdLog.Printf("Created store: MAIN")
	}

	stdLog.Printf("Seed completed")
}
