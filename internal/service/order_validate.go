package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/draft"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validationError 将 validator 错误转换为 ErrOrderValidation 包装错误
func validationError(base error, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", base, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", base, strings.Join(fields, ", "))
}

// parseDate 解析 YYYY-MM-DD 为 UTC 零点
func parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.UTC)
}

// dateOf 取本地日期并转为 UTC 零点，便于与存储的日期比较
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// checkDraftAmounts 提交前再次校验草稿内的数量与金额
func checkDraftAmounts(d draft.Draft) error {
	if d.IsEmpty() {
		return ErrOrderEmpty
	}
	for i, item := range d.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity", ErrOrderValidation, i)
		}
		if item.PriceAtOrder.IsNegative() {
			return fmt.Errorf("%w: items[%d].price_at_order", ErrOrderValidation, i)
		}
		if !item.Size.Valid() {
			return fmt.Errorf("%w: items[%d].size", ErrOrderValidation, i)
		}
	}
	for i, item := range d.CustomItems {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: custom_items[%d].name", ErrOrderValidation, i)
		}
		if item.PriceAtOrder.IsNegative() {
			return fmt.Errorf("%w: custom_items[%d].price_at_order", ErrOrderValidation, i)
		}
	}
	for name, amount := range map[string]interface{ IsNegative() bool }{
		"delivery_charge": d.DeliveryCharge,
		"advance_paid":    d.AdvancePaid,
		"discount":        d.Discount,
	} {
		if amount.IsNegative() {
			return fmt.Errorf("%w: %s", ErrOrderValidation, name)
		}
	}
	return nil
}
