package i18n

var messagesEN = map[string]string{
	// 通用
	"error.bad_request":            "Invalid request parameters",
	"error.id_invalid":             "Invalid ID",
	"error.unauthorized":           "Please log in first",
	"error.forbidden":              "You do not have permission to perform this action",
	"error.not_found":              "Resource not found",
	"error.internal":               "Internal server error",
	"error.too_many_requests":      "Too many requests, please try again later",
	"error.rate_limited":           "Too many requests, please retry in %d seconds",
	"error.rate_limit_unavailable": "Rate limiter unavailable, please try again later",
	"error.login_too_many":         "Too many login attempts, please retry in %d seconds",
	"error.tracking_too_many":      "Too many tracking lookups, please retry in %d seconds",
	"error.notify_unavailable":     "Customer messaging is not configured",
	"error.notify_failed":          "Failed to send customer message",
	"error.date_range_invalid":     "Invalid date range",
	"error.setting_invalid":        "Invalid setting value",
	"error.setting_fetch_failed":   "Failed to load settings",
	"error.setting_update_failed":  "Failed to save settings",

	// 鉴权
	"error.auth_header_missing":      "Authorization header is missing",
	"error.auth_header_invalid":      "Authorization header format is invalid",
	"error.token_invalid":            "Session is invalid or has expired",
	"error.token_revoked":            "Session has been revoked, please log in again",
	"error.jwt_secret_missing":       "JWT secret is not configured",
	"error.login_failed":             "Incorrect username or password",
	"error.captcha_required":         "Please enter the captcha",
	"error.captcha_invalid":          "Captcha is incorrect or expired",
	"error.admin_disabled":           "This account has been disabled",
	"error.admin_exists":             "Username already exists",
	"error.admin_not_found":          "Account not found",
	"error.admin_fetch_failed":       "Failed to load accounts",
	"error.admin_update_failed":      "Failed to update account",
	"error.cannot_disable_self":      "You cannot disable your own account",
	"error.password_invalid":         "Current password is incorrect",
	"error.password_min_length":      "Password must be at least %d characters",
	"error.password_require_upper":   "Password must contain an uppercase letter",
	"error.password_require_lower":   "Password must contain a lowercase letter",
	"error.password_require_number":  "Password must contain a number",
	"error.password_require_special": "Password must contain a special character",
	"error.role_invalid":             "Invalid role",
	"error.role_builtin":             "Builtin roles cannot be deleted",
	"error.policy_invalid":           "Invalid permission policy",
	"error.authz_failed":             "Failed to update permissions",

	// 草稿与菜单
	"error.draft_not_found":      "Order draft not found or expired",
	"error.draft_store_failed":   "Failed to save order draft",
	"error.draft_action_invalid": "Draft action could not be applied",
	"error.menu_item_not_found":  "Menu item not found",
	"error.menu_item_invalid":    "Invalid menu item",
	"error.menu_item_no_price":   "Menu item needs a price for at least one size",
	"error.menu_fetch_failed":    "Failed to load menu",
	"error.size_unavailable":     "This size is not available for the item",
	"error.quantity_invalid":     "Quantity must be at least 1",
	"error.amount_invalid":       "Amount must be a non-negative number",

	// 订单
	"error.order_validation":       "Order details are incomplete",
	"error.order_empty":            "Order has no items",
	"error.delivery_date_past":     "Delivery date cannot be in the past",
	"error.order_not_found":        "Order not found",
	"error.order_fetch_failed":     "Failed to load order",
	"error.order_create_failed":    "Failed to create order",
	"error.order_update_failed":    "Failed to update order",
	"error.order_status_invalid":   "Order status cannot be changed to the requested value",
	"error.order_not_editable":     "Order can no longer be edited",
	"error.payment_amount_invalid": "Payment amount must be positive",
	"error.customer_not_found":     "Customer not found",
	"error.customer_fetch_failed":  "Failed to load customers",

	// 包月
	"error.tiffin_not_found":       "Tiffin subscription not found",
	"error.tiffin_invalid":         "Invalid tiffin subscription",
	"error.tiffin_no_delivery_day": "No delivery day falls within the subscription period",
	"error.tiffin_status_invalid":  "Subscription status cannot be changed to the requested value",
	"error.tiffin_already_renewed": "Subscription has already been renewed",

	// 配送
	"error.zone_not_found":          "No delivery zone covers this postal code",
	"error.zone_invalid":            "Invalid delivery zone",
	"error.driver_not_found":        "Driver not found",
	"error.driver_inactive":         "Driver is inactive",
	"error.driver_invalid":          "Invalid driver",
	"error.delivery_not_found":      "Delivery not found",
	"error.delivery_status_invalid": "Delivery status cannot be changed to the requested value",
	"error.delivery_fetch_failed":   "Failed to load deliveries",
	"error.tracking_not_found":      "No order matches this number and phone",

	// 门店与支出
	"error.store_not_found":       "Store not found",
	"error.store_invalid":         "Invalid store",
	"error.store_code_exists":     "Store code already exists",
	"error.store_has_staff":       "Store still has staff members",
	"error.staff_not_found":       "Staff member not found",
	"error.staff_invalid":         "Invalid staff member",
	"error.expense_not_found":     "Expense not found",
	"error.expense_invalid":       "Invalid expense",
	"error.report_failed":         "Failed to build report",
	"error.invoice_render_failed": "Failed to generate invoice",

	// 状态
	"status.pending":          "Pending",
	"status.confirmed":        "Confirmed",
	"status.preparing":        "Preparing",
	"status.ready":            "Ready",
	"status.out_for_delivery": "Out for delivery",
	"status.delivered":        "Delivered",
	"status.completed":        "Completed",
	"status.canceled":         "Canceled",

	// 客户通知
	"notify.order_placed":         "Hi {{customer_name}}, your order {{order_no}} with {{business_name}} is booked for {{delivery_date}} {{delivery_time}}. Total {{currency}} {{total}}, balance due {{currency}} {{pending}}.",
	"notify.order_status_changed": "Hi {{customer_name}}, your order {{order_no}} is now {{status}}.",
	"notify.out_for_delivery":     "Hi {{customer_name}}, your order {{order_no}} is on its way. Balance due on delivery: {{currency}} {{pending}}.",
	"notify.tiffin_created":       "Hi {{customer_name}}, your {{plan_name}} tiffin plan {{order_no}} runs {{start_date}} to {{end_date}}. Total {{currency}} {{total}}, balance due {{currency}} {{pending}}.",
	"notify.tiffin_renewal":       "Hi {{customer_name}}, your {{plan_name}} tiffin plan {{order_no}} ends on {{end_date}}. Reply to renew with {{business_name}}.",
}
