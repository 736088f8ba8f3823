package shared

import (
	"errors"

	"github.com/tiffin-desk/internal/authz"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// FailMapped 命中规则返回对应提示；未命中按 500 处理并记录原始错误
func FailMapped(c *gin.Context, err error, rules []MappedError, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			Fail(c, rule.Code, rule.Key, nil)
			return
		}
	}
	Fail(c, response.CodeInternal, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// DraftErrorRules 草稿动作错误
var DraftErrorRules = []MappedError{
	{Target: service.ErrDraftNotFound, Code: response.CodeNotFound, Key: "error.draft_not_found"},
	{Target: draft.ErrItemNotFound, Code: response.CodeBadRequest, Key: "error.menu_item_not_found"},
	{Target: draft.ErrSizeUnavailable, Code: response.CodeBadRequest, Key: "error.size_unavailable"},
	{Target: draft.ErrInvalidSize, Code: response.CodeBadRequest, Key: "error.size_unavailable"},
	{Target: draft.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: draft.ErrQuantityAtMinimum, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: draft.ErrInvalidAmount, Code: response.CodeBadRequest, Key: "error.amount_invalid"},
	{Target: draft.ErrIndexOutOfRange, Code: response.CodeBadRequest, Key: "error.draft_action_invalid"},
	{Target: draft.ErrInvalidPaymentField, Code: response.CodeBadRequest, Key: "error.draft_action_invalid"},
	{Target: draft.ErrCustomNameRequired, Code: response.CodeBadRequest, Key: "error.draft_action_invalid"},
	{Target: draft.ErrCustomPriceRequired, Code: response.CodeBadRequest, Key: "error.draft_action_invalid"},
	{Target: draft.ErrUnknownAction, Code: response.CodeBadRequest, Key: "error.draft_action_invalid"},
}

// OrderErrorRules 餐饮订单提交与修改错误
var OrderErrorRules = ConcatMappedErrors(DraftErrorRules, []MappedError{
	{Target: service.ErrOrderValidation, Code: response.CodeBadRequest, Key: "error.order_validation"},
	{Target: service.ErrOrderEmpty, Code: response.CodeBadRequest, Key: "error.order_empty"},
	{Target: service.ErrDeliveryDatePast, Code: response.CodeBadRequest, Key: "error.delivery_date_past"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderNotEditable, Code: response.CodeBadRequest, Key: "error.order_not_editable"},
	{Target: service.ErrPaymentAmount, Code: response.CodeBadRequest, Key: "error.payment_amount_invalid"},
})

// TiffinErrorRules 包月订阅错误
var TiffinErrorRules = []MappedError{
	{Target: service.ErrTiffinNotFound, Code: response.CodeNotFound, Key: "error.tiffin_not_found"},
	{Target: service.ErrTiffinInvalid, Code: response.CodeBadRequest, Key: "error.tiffin_invalid"},
	{Target: service.ErrTiffinNoDeliveryDay, Code: response.CodeBadRequest, Key: "error.tiffin_no_delivery_day"},
	{Target: service.ErrTiffinStatusInvalid, Code: response.CodeBadRequest, Key: "error.tiffin_status_invalid"},
	{Target: service.ErrTiffinAlreadyRenewed, Code: response.CodeBadRequest, Key: "error.tiffin_already_renewed"},
	{Target: service.ErrPaymentAmount, Code: response.CodeBadRequest, Key: "error.payment_amount_invalid"},
	{Target: draft.ErrInvalidAmount, Code: response.CodeBadRequest, Key: "error.amount_invalid"},
}

// DeliveryErrorRules 配送区域、司机与配送单错误
var DeliveryErrorRules = []MappedError{
	{Target: service.ErrZoneNotFound, Code: response.CodeNotFound, Key: "error.zone_not_found"},
	{Target: service.ErrZoneInvalid, Code: response.CodeBadRequest, Key: "error.zone_invalid"},
	{Target: service.ErrDriverNotFound, Code: response.CodeNotFound, Key: "error.driver_not_found"},
	{Target: service.ErrDriverInactive, Code: response.CodeBadRequest, Key: "error.driver_inactive"},
	{Target: service.ErrDriverInvalid, Code: response.CodeBadRequest, Key: "error.driver_invalid"},
	{Target: service.ErrDeliveryNotFound, Code: response.CodeNotFound, Key: "error.delivery_not_found"},
	{Target: service.ErrDeliveryStatusInvalid, Code: response.CodeBadRequest, Key: "error.delivery_status_invalid"},
}

// StoreErrorRules 门店、员工与支出错误
var StoreErrorRules = []MappedError{
	{Target: service.ErrStoreNotFound, Code: response.CodeNotFound, Key: "error.store_not_found"},
	{Target: service.ErrStoreInvalid, Code: response.CodeBadRequest, Key: "error.store_invalid"},
	{Target: service.ErrStoreCodeExists, Code: response.CodeBadRequest, Key: "error.store_code_exists"},
	{Target: service.ErrStoreHasStaff, Code: response.CodeBadRequest, Key: "error.store_has_staff"},
	{Target: service.ErrStaffNotFound, Code: response.CodeNotFound, Key: "error.staff_not_found"},
	{Target: service.ErrStaffInvalid, Code: response.CodeBadRequest, Key: "error.staff_invalid"},
	{Target: service.ErrExpenseNotFound, Code: response.CodeNotFound, Key: "error.expense_not_found"},
	{Target: service.ErrExpenseInvalid, Code: response.CodeBadRequest, Key: "error.expense_invalid"},
}

// MenuErrorRules 菜单维护错误
var MenuErrorRules = []MappedError{
	{Target: service.ErrMenuItemNotFound, Code: response.CodeNotFound, Key: "error.menu_item_not_found"},
	{Target: service.ErrMenuItemInvalid, Code: response.CodeBadRequest, Key: "error.menu_item_invalid"},
	{Target: service.ErrMenuItemNoPrice, Code: response.CodeBadRequest, Key: "error.menu_item_no_price"},
}

// RoleErrorRules 岗位与权限策略错误
var RoleErrorRules = []MappedError{
	{Target: authz.ErrUnavailable, Code: response.CodeInternal, Key: "error.authz_failed"},
	{Target: authz.ErrRoleBuiltin, Code: response.CodeBadRequest, Key: "error.role_builtin"},
	{Target: authz.ErrRoleRequired, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: authz.ErrRoleReserved, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: authz.ErrAdminRequired, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: authz.ErrActionRequired, Code: response.CodeBadRequest, Key: "error.policy_invalid"},
}

// AccountErrorRules 员工登录账号维护错误
var AccountErrorRules = []MappedError{
	{Target: service.ErrAdminExists, Code: response.CodeBadRequest, Key: "error.admin_exists"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrCannotDisableSelf, Code: response.CodeBadRequest, Key: "error.cannot_disable_self"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.admin_not_found"},
}

// LoginErrorRules 登录与验证码错误
var LoginErrorRules = []MappedError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_failed"},
	{Target: service.ErrAdminDisabled, Code: response.CodeUnauthorized, Key: "error.admin_disabled"},
}

// PasswordChangeErrorRules 本人改密错误；弱密码由调用方按策略单独提示
var PasswordChangeErrorRules = []MappedError{
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.admin_not_found"},
}

// SettingErrorRules 设置写入错误
var SettingErrorRules = []MappedError{
	{Target: service.ErrSettingInvalid, Code: response.CodeBadRequest, Key: "error.setting_invalid"},
}
