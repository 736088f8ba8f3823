package provider

import (
	"github.com/tiffin-desk/internal/authz"
	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/queue"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo    repository.AdminRepository
	SettingRepo  repository.SettingRepository
	MenuItemRepo repository.MenuItemRepository
	CustomerRepo repository.CustomerRepository
	OrderRepo    repository.CateringOrderRepository
	TiffinRepo   repository.TiffinRepository
	ZoneRepo     repository.ZoneRepository
	DriverRepo   repository.DriverRepository
	DeliveryRepo repository.DeliveryRepository
	StoreRepo    repository.StoreRepository
	StaffRepo    repository.StaffRepository
	ExpenseRepo  repository.ExpenseRepository
	ReportRepo   repository.ReportRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CaptchaService      *service.CaptchaService
	SettingService      *service.SettingService
	MenuService         *service.MenuService
	DraftService        *service.DraftService
	NotificationService *service.NotificationService
	OrderService        *service.OrderService
	TiffinService       *service.TiffinService
	CustomerService     *service.CustomerService
	DeliveryService     *service.DeliveryService
	StoreService        *service.StoreService
	ExpenseService      *service.ExpenseService
	ReportService       *service.ReportService
	InvoiceService      *service.InvoiceService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.MenuItemRepo = repository.NewMenuItemRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.OrderRepo = repository.NewCateringOrderRepository(db)
	c.TiffinRepo = repository.NewTiffinRepository(db)
	c.ZoneRepo = repository.NewZoneRepository(db)
	c.DriverRepo = repository.NewDriverRepository(db)
	c.DeliveryRepo = repository.NewDeliveryRepository(db)
	c.StoreRepo = repository.NewStoreRepository(db)
	c.StaffRepo = repository.NewStaffRepository(db)
	c.ExpenseRepo = repository.NewExpenseRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Security.LoginCaptcha)
	c.MenuService = service.NewMenuService(c.MenuItemRepo)
	catalog := c.MenuService.Catalog()

	notifier := service.NewGatewayNotifier(c.Config.Notify)
	c.NotificationService = service.NewNotificationService(c.Config, notifier, c.QueueClient, c.OrderRepo, c.TiffinRepo)

	c.DraftService = service.NewDraftService(c.Config, service.NewDraftStore(), catalog, c.SettingService)
	c.OrderService = service.NewOrderService(
		c.Config,
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
		c.Config,
		c.TiffinRepo,
		c.OrderRepo,
		c.CustomerRepo,
		c.ZoneRepo,
		c.SettingService,
		c.NotificationService,
	)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
	c.DeliveryService = service.NewDeliveryService(
		c.ZoneRepo,
		c.DriverRepo,
		c.DeliveryRepo,
		c.OrderRepo,
		c.TiffinRepo,
		c.NotificationService,
	)
	c.StoreService = service.NewStoreService(c.StoreRepo, c.StaffRepo)
	c.ExpenseService = service.NewExpenseService(c.ExpenseRepo, c.StoreRepo)
	c.ReportService = service.NewReportService(c.ReportRepo, c.SettingService)
	c.InvoiceService = service.NewInvoiceService(c.Config, c.SettingService)
}
