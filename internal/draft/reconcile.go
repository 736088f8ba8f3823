package draft

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals 草稿派生金额，始终由 Reconcile 全量计算
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	FullyPaid      bool            `json:"fully_paid"`
	Overpaid       bool            `json:"overpaid"` // 仅用于展示：预付+优惠超过总额
}

// Reconcile 根据草稿与税率（百分比）计算派生金额。
//
//	subtotal = Σ(单价×数量) + Σ(自定义单价)
//	tax      = 免税 ? 0 : subtotal × taxRate / 100
//	total    = subtotal + tax + 配送费
//	pending  = total − 预付 − 优惠
//
// 结果可以为负（超额付款），不会报错。
func Reconcile(d Draft, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	for _, item := range d.CustomItems {
		subtotal = subtotal.Add(item.PriceAtOrder.Round(2))
	}
	subtotal = subtotal.Round(2)

	tax := decimal.Zero
	if !d.TaxExempt && taxRate.IsPositive() {
		tax = subtotal.Mul(taxRate).Div(hundred).Round(2)
	}

	total := subtotal.Add(tax).Add(d.DeliveryCharge).Round(2)
	pending := total.Sub(d.AdvancePaid).Sub(d.Discount).Round(2)

	return Totals{
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          total,
		PendingBalance: pending,
		FullyPaid:      !pending.IsPositive(),
		Overpaid:       pending.IsNegative(),
	}
}

// LineTotal 行小计（单价×数量）
func (item LineItem) LineTotal() decimal.Decimal {
	return item.PriceAtOrder.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
}
