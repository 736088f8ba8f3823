package i18n

var messagesZH = map[string]string{
	"error.bad_request":            "请求参数错误",
	"error.id_invalid":             "ID 无效",
	"error.unauthorized":           "请先登录",
	"error.forbidden":              "无权执行该操作",
	"error.not_found":              "资源不存在",
	"error.internal":               "服务器内部错误",
	"error.too_many_requests":      "请求过于频繁，请稍后再试",
	"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
	"error.rate_limit_unavailable": "限流服务不可用，请稍后重试",
	"error.login_too_many":         "登录尝试过多，请 %d 秒后重试",
	"error.tracking_too_many":      "查询过于频繁，请 %d 秒后重试",
	"error.notify_unavailable":     "客户消息通道未配置",
	"error.notify_failed":          "客户消息发送失败",
	"error.date_range_invalid":     "日期范围无效",
	"error.setting_invalid":        "设置值无效",
	"error.setting_fetch_failed":   "读取设置失败",
	"error.setting_update_failed":  "保存设置失败",

	"error.auth_header_missing":      "缺少 Authorization 头",
	"error.auth_header_invalid":      "Authorization 头格式错误",
	"error.token_invalid":            "登录已失效，请重新登录",
	"error.token_revoked":            "登录已被吊销，请重新登录",
	"error.jwt_secret_missing":       "未配置 JWT 密钥",
	"error.login_failed":             "用户名或密码错误",
	"error.captcha_required":         "请输入验证码",
	"error.captcha_invalid":          "验证码错误或已过期",
	"error.admin_disabled":           "该账号已停用",
	"error.admin_exists":             "用户名已存在",
	"error.admin_not_found":          "账号不存在",
	"error.admin_fetch_failed":       "读取账号失败",
	"error.admin_update_failed":      "更新账号失败",
	"error.cannot_disable_self":      "不能停用当前登录账号",
	"error.password_invalid":         "原密码错误",
	"error.password_min_length":      "密码长度不能少于 %d 位",
	"error.password_require_upper":   "密码需包含大写字母",
	"error.password_require_lower":   "密码需包含小写字母",
	"error.password_require_number":  "密码需包含数字",
	"error.password_require_special": "密码需包含特殊字符",
	"error.role_invalid":             "角色无效",
	"error.role_builtin":             "预置岗位不可删除",
	"error.policy_invalid":           "权限策略无效",
	"error.authz_failed":             "更新权限失败",

	"error.draft_not_found":      "草稿不存在或已过期",
	"error.draft_store_failed":   "保存草稿失败",
	"error.draft_action_invalid": "草稿操作无法执行",
	"error.menu_item_not_found":  "菜品不存在",
	"error.menu_item_invalid":    "菜品信息无效",
	"error.menu_item_no_price":   "菜品至少需要一个份量价格",
	"error.menu_fetch_failed":    "读取菜单失败",
	"error.size_unavailable":     "该菜品不提供此份量",
	"error.quantity_invalid":     "数量至少为 1",
	"error.amount_invalid":       "金额必须为非负数",

	"error.order_validation":       "订单信息不完整",
	"error.order_empty":            "订单没有菜品",
	"error.delivery_date_past":     "配送日期不能早于今天",
	"error.order_not_found":        "订单不存在",
	"error.order_fetch_failed":     "读取订单失败",
	"error.order_create_failed":    "创建订单失败",
	"error.order_update_failed":    "更新订单失败",
	"error.order_status_invalid":   "订单状态不允许此变更",
	"error.order_not_editable":     "订单已无法修改",
	"error.payment_amount_invalid": "收款金额必须大于 0",
	"error.customer_not_found":     "客户不存在",
	"error.customer_fetch_failed":  "读取客户失败",

	"error.tiffin_not_found":       "包月订阅不存在",
	"error.tiffin_invalid":         "包月订阅信息无效",
	"error.tiffin_no_delivery_day": "订阅期内没有配送日",
	"error.tiffin_status_invalid":  "订阅状态不允许此变更",
	"error.tiffin_already_renewed": "该订阅已续订",

	"error.zone_not_found":          "该邮编不在配送范围内",
	"error.zone_invalid":            "配送区域信息无效",
	"error.driver_not_found":        "配送员不存在",
	"error.driver_inactive":         "配送员已停用",
	"error.driver_invalid":          "配送员信息无效",
	"error.delivery_not_found":      "配送单不存在",
	"error.delivery_status_invalid": "配送状态不允许此变更",
	"error.delivery_fetch_failed":   "读取配送单失败",
	"error.tracking_not_found":      "未找到匹配的订单",

	"error.store_not_found":       "门店不存在",
	"error.store_invalid":         "门店信息无效",
	"error.store_code_exists":     "门店编码已存在",
	"error.store_has_staff":       "门店下仍有员工",
	"error.staff_not_found":       "员工不存在",
	"error.staff_invalid":         "员工信息无效",
	"error.expense_not_found":     "支出记录不存在",
	"error.expense_invalid":       "支出信息无效",
	"error.report_failed":         "生成报表失败",
	"error.invoice_render_failed": "生成发票失败",

	"status.pending":          "待确认",
	"status.confirmed":        "已确认",
	"status.preparing":        "备餐中",
	"status.ready":            "待配送",
	"status.out_for_delivery": "配送中",
	"status.delivered":        "已送达",
	"status.completed":        "已完成",
	"status.canceled":         "已取消",

	"notify.order_placed":         "{{customer_name}} 您好，您在{{business_name}}的订单 {{order_no}} 已预订，配送时间 {{delivery_date}} {{delivery_time}}。总额 {{currency}} {{total}}，待付 {{currency}} {{pending}}。",
	"notify.order_status_changed": "{{customer_name}} 您好，您的订单 {{order_no}} 当前状态：{{status}}。",
	"notify.out_for_delivery":     "{{customer_name}} 您好，您的订单 {{order_no}} 正在配送，送达时需付 {{currency}} {{pending}}。",
	"notify.tiffin_created":       "{{customer_name}} 您好，您的{{plan_name}}包月 {{order_no}} 自 {{start_date}} 至 {{end_date}}。总额 {{currency}} {{total}}，待付 {{currency}} {{pending}}。",
	"notify.tiffin_renewal":       "{{customer_name}} 您好，您的{{plan_name}}包月 {{order_no}} 将于 {{end_date}} 结束，如需续订请联系{{business_name}}。",
}
