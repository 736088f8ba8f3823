package router

import (
	"net/http"
	"sync"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/config"
	adminhandlers "github.com/tiffin-desk/internal/http/handlers/admin"
	publichandlers "github.com/tiffin-desk/internal/http/handlers/public"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 注册全部路由：/api/v1/public 免登录，/api/v1/admin 需令牌与岗位权限
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		LoggerMiddleware(logger.Z()),
		CORSMiddleware(cfg.CORS),
	)
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	redisClient := cache.Client()
	loginLimit := RateLimitMiddleware(redisClient,
		NewRateLimitRule(cache.BuildKey("rate:admin_login"), "error.login_too_many", cfg.Security.LoginRateLimit),
		KeyByIPAndJSONField("username"))
	trackLimit := RateLimitMiddleware(redisClient,
		NewRateLimitRule(cache.BuildKey("rate:tracking"), "error.tracking_too_many", cfg.Security.TrackingRateLimit),
		KeyByIPAndQuery("order_no"))

	v1 := r.Group("/api/v1")

	pub := publichandlers.New(c)
	public := v1.Group("/public")
	public.GET("/config", pub.GetConfig)
	public.GET("/menu", pub.GetMenu)
	public.GET("/track", trackLimit, pub.TrackOrder)

	h := adminhandlers.New(c)
	admin := v1.Group("/admin")
	admin.GET("/captcha", h.GetLoginCaptcha)
	admin.POST("/login", loginLimit, h.AdminLogin)

	staff := admin.Group("", JWTAuthMiddleware(c.AuthService), AdminRBACMiddleware(c.AuthzService))
	staff.PUT("/password", h.UpdateAdminPassword)
	registerOrderRoutes(staff, h)
	registerTiffinRoutes(staff, h)
	registerCatalogRoutes(staff, h)
	registerDeliveryRoutes(staff, h)
	registerBackOfficeRoutes(staff, h)

	catalog := sync.OnceValue(func() []permissionEntry { return buildPermissionCatalog(r.Routes()) })
	registerAccessRoutes(staff, h, func(ctx *gin.Context) { response.Success(ctx, catalog()) })
	return r
}

// 草稿、餐饮订单与客户
func registerOrderRoutes(g *gin.RouterGroup, h *adminhandlers.Handler) {
	g.POST("/drafts", h.CreateDraft)
	g.GET("/drafts/:id", h.GetDraft)
	g.POST("/drafts/:id/actions", h.ApplyDraftActions)
	g.DELETE("/drafts/:id", h.DiscardDraft)

	g.POST("/orders", h.SubmitOrder)
	g.GET("/orders", h.ListOrders)
	g.GET("/orders/:id", h.GetOrder)
	g.PATCH("/orders/:id", h.UpdateOrderStatus)
	g.PUT("/orders/:id", h.UpdateOrderDetails)
	g.PUT("/orders/:id/items", h.EditOrderItems)
	g.POST("/orders/:id/payments", h.RecordOrderPayment)
	g.POST("/orders/:id/notify", h.ResendOrderNotification)
	g.GET("/orders/:id/invoice", h.GetOrderInvoice)

	g.GET("/customers", h.ListCustomers)
	g.GET("/customers/lookup", h.LookupCustomer)
	g.GET("/customers/:id", h.GetCustomer)
	g.PATCH("/customers/:id", h.UpdateCustomerNote)
}

func registerTiffinRoutes(g *gin.RouterGroup, h *adminhandlers.Handler) {
	g.POST("/tiffins", h.CreateTiffin)
	g.GET("/tiffins", h.ListTiffins)
	g.GET("/tiffins/due-renewal", h.ListTiffinsDueForRenewal)
	g.GET("/tiffins/:id", h.GetTiffin)
	g.POST("/tiffins/:id/pause", h.PauseTiffin)
	g.POST("/tiffins/:id/resume", h.ResumeTiffin)
	g.POST("/tiffins/:id/cancel", h.CancelTiffin)
	g.POST("/tiffins/:id/renew", h.RenewTiffin)
	g.POST("/tiffins/:id/payments", h.RecordTiffinPayment)
	g.GET("/tiffins/:id/invoice", h.GetTiffinInvoice)
}

func registerCatalogRoutes(g *gin.RouterGroup, h *adminhandlers.Handler) {
	g.GET("/menu-items", h.ListMenuItems)
	g.GET("/menu-items/categories", h.ListMenuCategories)
	g.GET("/menu-items/:id", h.GetMenuItem)
	g.POST("/menu-items", h.CreateMenuItem)
	g.PUT("/menu-items/:id", h.UpdateMenuItem)
	g.DELETE("/menu-items/:id", h.DeleteMenuItem)
}

// 配送区域、配送员与配送单
func registerDeliveryRoutes(g *gin.RouterGroup, h *adminhandlers.Handler) {
	g.GET("/zones", h.ListZones)
	g.GET("/zones/match", h.MatchZone)
	g.POST("/zones", h.CreateZone)
	g.PUT("/zones/:id", h.UpdateZone)
	g.DELETE("/zones/:id", h.DeleteZone)

	g.GET("/drivers", h.ListDrivers)
	g.POST("/drivers", h.CreateDriver)
	g.PUT("/drivers/:id", h.UpdateDriver)
	g.DELETE("/drivers/:id", h.DeleteDriver)

	g.GET("/deliveries", h.ListDeliveries)
	g.POST("/deliveries/schedule", h.ScheduleDeliveries)
	g.PATCH("/deliveries/:id", h.UpdateDeliveryStatus)
	g.PUT("/deliveries/:id/driver", h.AssignDeliveryDriver)
}

// 门店、员工档案、支出、报表与系统设置
func registerBackOfficeRoutes(g *gin.RouterGroup, h *adminhandlers.Handler) {
	g.GET("/stores", h.ListStores)
	g.POST("/stores", h.CreateStore)
	g.GET("/stores/:id", h.GetStore)
	g.PUT("/stores/:id", h.UpdateStore)
	g.DELETE("/stores/:id", h.DeleteStore)

	g.GET("/staff", h.ListStaff)
	g.POST("/staff", h.CreateStaff)
	g.GET("/staff/:id", h.GetStaff)
	g.PUT("/staff/:id", h.UpdateStaff)
	g.DELETE("/staff/:id", h.DeleteStaff)

	g.GET("/expenses", h.ListExpenses)
	g.POST("/expenses", h.CreateExpense)
	g.GET("/expenses/:id", h.GetExpense)
	g.PUT("/expenses/:id", h.UpdateExpense)
	g.DELETE("/expenses/:id", h.DeleteExpense)

	g.GET("/reports/overview", h.GetReportOverview)
	g.GET("/reports/revenue", h.GetReportRevenue)
	g.GET("/reports/expenses", h.GetReportExpenses)
	g.GET("/reports/pending-balances", h.GetReportPendingBalances)

	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
}

// 岗位、权限策略与登录账号
func registerAccessRoutes(g *gin.RouterGroup, h *adminhandlers.Handler, catalog gin.HandlerFunc) {
	g.GET("/authz/me", h.GetAuthzMe)
	g.GET("/authz/permissions/catalog", catalog)

	g.GET("/authz/roles", h.ListAuthzRoles)
	g.POST("/authz/roles", h.CreateAuthzRole)
	g.DELETE("/authz/roles/:role", h.DeleteAuthzRole)
	g.GET("/authz/roles/:role/policies", h.GetAuthzRolePolicies)
	g.POST("/authz/policies", h.GrantAuthzPolicy)
	g.DELETE("/authz/policies", h.RevokeAuthzPolicy)

	g.GET("/authz/admins", h.ListAuthzAdmins)
	g.POST("/authz/admins", h.CreateAuthzAdmin)
	g.PUT("/authz/admins/:id/roles", h.SetAuthzAdminRoles)
	g.PATCH("/authz/admins/:id", h.SetAuthzAdminActive)
	g.POST("/authz/admins/:id/password", h.ResetAuthzAdminPassword)
}
