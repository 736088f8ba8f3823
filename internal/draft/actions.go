package draft

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentField 草稿上的付款字段
type PaymentField string

const (
	FieldDeliveryCharge PaymentField = "delivery_charge"
	FieldAdvancePaid    PaymentField = "advance_paid"
	FieldDiscount       PaymentField = "discount"
)

// ParsePaymentField 解析付款字段名
func ParsePaymentField(raw string) (PaymentField, error) {
	field := PaymentField(strings.ToLower(strings.TrimSpace(raw)))
	switch field {
	case FieldDeliveryCharge, FieldAdvancePaid, FieldDiscount:
		return field, nil
	default:
		return "", ErrInvalidPaymentField
	}
}

// AddItem 加入菜单菜品，价格取当前菜单报价。
// 已存在相同 (菜品, 份量) 的行时合并数量，保留原价格快照。
func AddItem(d Draft, catalog Catalog, itemID uint, size Size, quantity int) (Draft, error) {
	if quantity < 1 {
		return d, ErrInvalidQuantity
	}
	if !size.Valid() {
		return d, ErrInvalidSize
	}
	if catalog == nil {
		return d, ErrCatalogUnavailable
	}
	entry, err := catalog.PriceFor(itemID, size)
	if err != nil {
		return d, err
	}

	out := d.Clone()
	if idx := out.findItem(itemID, size, -1); idx >= 0 {
		out.Items[idx].Quantity += quantity
		return out, nil
	}
	out.Items = append(out.Items, LineItem{
		ItemID:       itemID,
		Name:         entry.Name,
		Size:         size,
		Quantity:     quantity,
		PriceAtOrder: entry.Price.Round(2),
	})
	return out, nil
}

// RemoveItem 删除菜单菜品行
func RemoveItem(d Draft, index int) (Draft, error) {
	if index < 0 || index >= len(d.Items) {
		return d, ErrIndexOutOfRange
	}
	out := d.Clone()
	out.Items = append(out.Items[:index], out.Items[index+1:]...)
	return out, nil
}

// IncrementQuantity 数量 +1
func IncrementQuantity(d Draft, index int) (Draft, error) {
	if index < 0 || index >= len(d.Items) {
		return d, ErrIndexOutOfRange
	}
	out := d.Clone()
	out.Items[index].Quantity++
	return out, nil
}

// DecrementQuantity 数量 -1，数量为 1 时拒绝
func DecrementQuantity(d Draft, index int) (Draft, error) {
	if index < 0 || index >= len(d.Items) {
		return d, ErrIndexOutOfRange
	}
	if d.Items[index].Quantity <= 1 {
		return d, ErrQuantityAtMinimum
	}
	out := d.Clone()
	out.Items[index].Quantity--
	return out, nil
}

// SetQuantity 直接设置数量
func SetQuantity(d Draft, index, quantity int) (Draft, error) {
	if index < 0 || index >= len(d.Items) {
		return d, ErrIndexOutOfRange
	}
	if quantity < 1 {
		return d, ErrInvalidQuantity
	}
	out := d.Clone()
	out.Items[index].Quantity = quantity
	return out, nil
}

// ChangeSize 修改行份量：按新份量重新取价，
// 若已有相同 (菜品, 新份量) 的行则合并到该行并累加数量。
func ChangeSize(d Draft, catalog Catalog, index int, size Size) (Draft, error) {
	if index < 0 || index >= len(d.Items) {
		return d, ErrIndexOutOfRange
	}
	if !size.Valid() {
		return d, ErrInvalidSize
	}
	current := d.Items[index]
	if current.Size == size {
		return d, nil
	}
	if catalog == nil {
		return d, ErrCatalogUnavailable
	}
	entry, err := catalog.PriceFor(current.ItemID, size)
	if err != nil {
		return d, err
	}

	out := d.Clone()
	price := entry.Price.Round(2)
	if target := out.findItem(current.ItemID, size, index); target >= 0 {
		out.Items[target].Quantity += current.Quantity
		out.Items[target].PriceAtOrder = price
		out.Items = append(out.Items[:index], out.Items[index+1:]...)
		return out, nil
	}
	out.Items[index].Size = size
	out.Items[index].PriceAtOrder = price
	if entry.Name != "" {
		out.Items[index].Name = entry.Name
	}
	return out, nil
}

// AddCustomItem 加入自定义菜品
func AddCustomItem(d Draft, name, size string, price decimal.Decimal) (Draft, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return d, ErrCustomNameRequired
	}
	if price.IsNegative() {
		return d, ErrInvalidAmount
	}
	out := d.Clone()
	out.CustomItems = append(out.CustomItems, CustomLineItem{
		Name:         name,
		Size:         strings.TrimSpace(size),
		PriceAtOrder: price.Round(2),
	})
	return out, nil
}

// RemoveCustomItem 删除自定义菜品
func RemoveCustomItem(d Draft, index int) (Draft, error) {
	if index < 0 || index >= len(d.CustomItems) {
		return d, ErrIndexOutOfRange
	}
	out := d.Clone()
	out.CustomItems = append(out.CustomItems[:index], out.CustomItems[index+1:]...)
	return out, nil
}

// SetPaymentField 设置付款字段。
// 空字符串视为尚未填写，草稿保持不变；负数或非法输入被拒绝且草稿不变。
func SetPaymentField(d Draft, field PaymentField, raw string) (Draft, error) {
	switch field {
	case FieldDeliveryCharge, FieldAdvancePaid, FieldDiscount:
	default:
		return d, ErrInvalidPaymentField
	}
	amount, set, err := ParseAmount(raw)
	if err != nil {
		return d, err
	}
	if !set {
		return d, nil
	}
	out := d.Clone()
	switch field {
	case FieldDeliveryCharge:
		out.DeliveryCharge = amount
	case FieldAdvancePaid:
		out.AdvancePaid = amount
	case FieldDiscount:
		out.Discount = amount
	}
	return out, nil
}

// SetTaxExempt 设置免税
func SetTaxExempt(d Draft, exempt bool) Draft {
	out := d.Clone()
	out.TaxExempt = exempt
	return out
}

// SetNote 设置备注
func SetNote(d Draft, note string) Draft {
	out := d.Clone()
	out.Note = strings.TrimSpace(note)
	return out
}
