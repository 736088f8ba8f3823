package service

import "errors"

// 通用
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrAdminDisabled      = errors.New("admin disabled")
	ErrSigningKeyMissing  = errors.New("jwt signing key missing")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAdminExists        = errors.New("admin username exists")
	ErrCannotDisableSelf  = errors.New("cannot disable current admin")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrSettingInvalid     = errors.New("invalid setting value")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")
)

// 草稿
var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrDraftStore    = errors.New("draft store failed")
)

// 菜单
var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrMenuItemInvalid  = errors.New("invalid menu item")
	ErrMenuItemNoPrice  = errors.New("menu item requires at least one size price")
)

// 餐饮订单
var (
	ErrOrderValidation    = errors.New("order validation failed")
	ErrOrderEmpty         = errors.New("order has no items")
	ErrDeliveryDatePast   = errors.New("delivery date is in the past")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderFetchFailed   = errors.New("order fetch failed")
	ErrOrderCreateFailed  = errors.New("order create failed")
	ErrOrderUpdateFailed  = errors.New("order update failed")
	ErrOrderStatusInvalid = errors.New("order status transition invalid")
	ErrOrderNotEditable   = errors.New("order can no longer be edited")
	ErrPaymentAmount      = errors.New("payment amount must be positive")
	ErrCustomerNotFound   = errors.New("customer not found")
)

// 包月订阅
var (
	ErrTiffinNotFound       = errors.New("tiffin subscription not found")
	ErrTiffinInvalid        = errors.New("invalid tiffin subscription")
	ErrTiffinNoDeliveryDay  = errors.New("no delivery day in subscription period")
	ErrTiffinStatusInvalid  = errors.New("tiffin status transition invalid")
	ErrTiffinAlreadyRenewed = errors.New("tiffin subscription already renewed")
)

// 配送
var (
	ErrZoneNotFound          = errors.New("delivery zone not found")
	ErrZoneInvalid           = errors.New("invalid delivery zone")
	ErrDriverNotFound        = errors.New("driver not found")
	ErrDriverInactive        = errors.New("driver inactive")
	ErrDriverInvalid         = errors.New("invalid driver")
	ErrDeliveryNotFound      = errors.New("delivery not found")
	ErrDeliveryStatusInvalid = errors.New("delivery status transition invalid")
	ErrTrackingNotFound      = errors.New("tracking record not found")
)

// 门店、员工与支出
var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrStoreInvalid    = errors.New("invalid store")
	ErrStoreCodeExists = errors.New("store code exists")
	ErrStoreHasStaff   = errors.New("store still has staff")
	ErrStaffNotFound   = errors.New("staff not found")
	ErrStaffInvalid    = errors.New("invalid staff")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrExpenseInvalid  = errors.New("invalid expense")
)

// 通知与发票
var (
	ErrNotifierDisabled = errors.New("notifier disabled")
	ErrNotifyFailed     = errors.New("notify failed")
	ErrNotifyNoReceiver = errors.New("notify receiver missing")
	ErrInvoiceRender    = errors.New("invoice render failed")
)
