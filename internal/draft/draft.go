// Package draft 订单草稿：草稿状态的纯函数变换与金额对账。
//
// 所有操作都返回新的 Draft，不修改入参；持久化由 service 层负责。
package draft

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem 菜单菜品行
type LineItem struct {
	ItemID       uint            `json:"item_id"`        // 菜单项 ID
	Name         string          `json:"name"`           // 下单时的菜品名称
	Size         Size            `json:"size"`           // 份量
	Quantity     int             `json:"quantity"`       // 数量（>=1）
	PriceAtOrder decimal.Decimal `json:"price_at_order"` // 加入时的单价快照
}

// CustomLineItem 自定义菜品行（不关联菜单，数量固定为 1）
type CustomLineItem struct {
	Name         string          `json:"name"`
	Size         string          `json:"size"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

// Draft 订单草稿
type Draft struct {
	Items          []LineItem       `json:"items"`
	CustomItems    []CustomLineItem `json:"custom_items"`
	DeliveryCharge decimal.Decimal  `json:"delivery_charge"`
	AdvancePaid    decimal.Decimal  `json:"advance_paid"`
	Discount       decimal.Decimal  `json:"discount"`
	Note           string           `json:"note"`
	TaxExempt      bool             `json:"tax_exempt"`
}

// New 创建空草稿
func New() Draft {
	return Draft{
		Items:       []LineItem{},
		CustomItems: []CustomLineItem{},
	}
}

// Clone 深拷贝草稿，保证变换函数不共享底层切片
func (d Draft) Clone() Draft {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	copy(out.Items, d.Items)
	out.CustomItems = make([]CustomLineItem, len(d.CustomItems))
	copy(out.CustomItems, d.CustomItems)
	return out
}

// IsEmpty 草稿内是否没有任何菜品
func (d Draft) IsEmpty() bool {
	return len(d.Items) == 0 && len(d.CustomItems) == 0
}

// LineCount 菜品行数（菜单行 + 自定义行）
func (d Draft) LineCount() int {
	return len(d.Items) + len(d.CustomItems)
}

// ParseAmount 解析金额输入。
// 空字符串表示"尚未填写"，返回 set=false；负数或非数字返回 ErrInvalidAmount。
func ParseAmount(raw string) (amount decimal.Decimal, set bool, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false, nil
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false, ErrInvalidAmount
	}
	if parsed.IsNegative() {
		return decimal.Zero, false, ErrInvalidAmount
	}
	return parsed.Round(2), true, nil
}

func (d Draft) findItem(itemID uint, size Size, skip int) int {
	for i, item := range d.Items {
		if i == skip {
			continue
		}
		if item.ItemID == itemID && item.Size == size {
			return i
		}
	}
	return -1
}
