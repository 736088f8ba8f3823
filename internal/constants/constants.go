package constants

// 餐饮订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCompleted      = "completed"
	OrderStatusCanceled       = "canceled"
)

// 付款状态（派生值，不落库）
const (
	PaymentStatePending  = "pending"
	PaymentStatePaid     = "paid"
	PaymentStateOverpaid = "overpaid"
)

// 包月订单状态常量
const (
	TiffinStatusActive   = "active"
	TiffinStatusPaused   = "paused"
	TiffinStatusCanceled = "canceled"
	TiffinStatusExpired  = "expired"
)

// 包月餐型
const (
	MealTypeLunch  = "lunch"
	MealTypeDinner = "dinner"
	MealTypeBoth   = "both"
)

// 配送单状态常量
const (
	DeliveryStatusPending        = "pending"
	DeliveryStatusAssigned       = "assigned"
	DeliveryStatusOutForDelivery = "out_for_delivery"
	DeliveryStatusDelivered      = "delivered"
	DeliveryStatusFailed         = "failed"
)

// 配送单来源
const (
	DeliverySourceCatering = "catering"
	DeliverySourceTiffin   = "tiffin"
)

// 员工角色
const (
	StaffRoleManager  = "manager"
	StaffRoleChef     = "chef"
	StaffRoleCashier  = "cashier"
	StaffRoleDriver   = "driver"
	StaffRoleHelper   = "helper"
	StaffStatusActive = "active"
	StaffStatusLeft   = "left"
)

// 支出分类
const (
	ExpenseCategoryIngredients = "ingredients"
	ExpenseCategoryPackaging   = "packaging"
	ExpenseCategoryFuel        = "fuel"
	ExpenseCategoryRent        = "rent"
	ExpenseCategoryUtilities   = "utilities"
	ExpenseCategorySalary      = "salary"
	ExpenseCategoryOther       = "other"
)

// 设置键常量
const (
	SettingKeyOrderConfig    = "order_config"
	SettingKeyBusinessConfig = "business_config"
)

// CacheKeyPublicConfig 公开配置接口缓存，设置变更后删除
const CacheKeyPublicConfig = "public:config"

// 设置字段常量
const (
	SettingFieldTaxRate         = "tax_rate"
	SettingFieldCurrency        = "currency"
	SettingFieldDraftTTLMinutes = "draft_ttl_minutes"
	SettingFieldRenewalLeadDays = "renewal_lead_days"
	SettingFieldBusinessName    = "business_name"
	SettingFieldBusinessAddress = "business_address"
	SettingFieldBusinessPhone   = "business_phone"
	SettingFieldInvoiceFooter   = "invoice_footer"
)

// 队列与任务常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskCustomerNotify         = "customer:notify"
	TaskTiffinRenewalReminder  = "tiffin:renewal_reminder"
	TaskTiffinDeliverySchedule = "tiffin:delivery_schedule"
)

// 客户通知事件
const (
	NotifyEventOrderPlaced        = "order_placed"
	NotifyEventOrderStatusChanged = "order_status_changed"
	NotifyEventOutForDelivery     = "out_for_delivery"
	NotifyEventTiffinRenewal      = "tiffin_renewal"
	NotifyEventTiffinCreated      = "tiffin_created"
)

// 语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)
