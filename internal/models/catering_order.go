package models

import (
	"time"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CateringOrder 餐饮订单表，菜品行以 JSON 列存储
type CateringOrder struct {
	ID               uint            `gorm:"primarykey" json:"id"`                                               // 主键
	OrderNo          string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_no"`              // 订单编号
	CustomerID       uint            `gorm:"index;not null" json:"customer_id"`                                  // 客户ID
	CustomerName     string          `gorm:"type:varchar(200);not null" json:"customer_name"`                    // 客户姓名
	CustomerPhone    string          `gorm:"type:varchar(40);index;not null" json:"customer_phone"`              // 客户手机号
	CustomerEmail    string          `gorm:"type:varchar(200);default:''" json:"customer_email"`                 // 客户邮箱
	DeliveryAddress  string          `gorm:"type:text" json:"delivery_address"`                                  // 配送地址
	PostalCode       string          `gorm:"type:varchar(20);index" json:"postal_code"`                          // 邮编
	ZoneID           *uint           `gorm:"index" json:"zone_id,omitempty"`                                     // 配送区域
	DeliveryDate     time.Time       `gorm:"index;not null" json:"delivery_date"`                                // 配送日期
	DeliveryTime     string          `gorm:"type:varchar(10);default:''" json:"delivery_time"`                   // 配送时间（HH:MM）
	EventType        string          `gorm:"type:varchar(100);default:''" json:"event_type"`                     // 活动类型
	GuestCount       int             `gorm:"not null;default:0" json:"guest_count"`                              // 宾客人数
	Status           string          `gorm:"type:varchar(32);index;not null" json:"status"`                      // 订单状态
	Items            LineItems       `gorm:"type:json" json:"items"`                                             // 菜单菜品行
	CustomItems      CustomLineItems `gorm:"type:json" json:"custom_items"`                                      // 自定义菜品行
	Note             string          `gorm:"type:text" json:"note"`                                              // 备注
	TaxExempt        bool            `gorm:"not null;default:false" json:"tax_exempt"`                           // 是否免税
	TaxRate          decimal.Decimal `gorm:"type:decimal(7,3);not null;default:0" json:"tax_rate"`               // 下单时税率（百分比）
	Subtotal         Money           `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`              // 小计
	TaxAmount        Money           `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`            // 税额
	DeliveryCharge   Money           `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_charge"`       // 配送费
	Discount         Money           `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`              // 优惠
	AdvancePaid      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"advance_paid"`          // 已预付
	TotalAmount      Money           `gorm:"type:decimal(20,2);not null;default:0;index" json:"total_amount"`    // 总额
	PendingBalance   Money           `gorm:"type:decimal(20,2);not null;default:0;index" json:"pending_balance"` // 待收余额（可为负）
	NotifyCustomer   bool            `gorm:"not null;default:false" json:"notify_customer"`                      // 是否通知客户
	NotificationSent bool            `gorm:"not null;default:false" json:"notification_sent"`                    // 通知是否已发出
	CreatedByAdminID uint            `gorm:"index;not null;default:0" json:"created_by_admin_id"`                // 录单管理员
	ConfirmedAt      *time.Time      `gorm:"index" json:"confirmed_at"`                                          // 确认时间
	DeliveredAt      *time.Time      `gorm:"index" json:"delivered_at"`                                          // 送达时间
	CanceledAt       *time.Time      `gorm:"index" json:"canceled_at"`                                           // 取消时间
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt        time.Time       `gorm:"index" json:"updated_at"`                                            // 更新时间
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`                                                     // 软删除时间
}

// TableName 指定表名
func (CateringOrder) TableName() string {
	return "catering_orders"
}

// ToDraft 还原为草稿，用于改单时重放动作
func (o CateringOrder) ToDraft() draft.Draft {
	d := draft.New()
	d.Items = append(d.Items, o.Items...)
	d.CustomItems = append(d.CustomItems, o.CustomItems...)
	d.DeliveryCharge = o.DeliveryCharge.Decimal
	d.AdvancePaid = o.AdvancePaid.Decimal
	d.Discount = o.Discount.Decimal
	d.Note = o.Note
	d.TaxExempt = o.TaxExempt
	return d
}

// ApplyDraft 将草稿与对账结果写回订单字段
func (o *CateringOrder) ApplyDraft(d draft.Draft, taxRate decimal.Decimal, totals draft.Totals) {
	o.Items = append(LineItems{}, d.Items...)
	o.CustomItems = append(CustomLineItems{}, d.CustomItems...)
	o.Note = d.Note
	o.TaxExempt = d.TaxExempt
	o.TaxRate = taxRate
	o.DeliveryCharge = NewMoneyFromDecimal(d.DeliveryCharge)
	o.Discount = NewMoneyFromDecimal(d.Discount)
	o.AdvancePaid = NewMoneyFromDecimal(d.AdvancePaid)
	o.Subtotal = NewMoneyFromDecimal(totals.Subtotal)
	o.TaxAmount = NewMoneyFromDecimal(totals.Tax)
	o.TotalAmount = NewMoneyFromDecimal(totals.Total)
	o.PendingBalance = NewMoneyFromDecimal(totals.PendingBalance)
}

// PaymentState 派生付款状态
func (o CateringOrder) PaymentState() string {
	return PaymentStateOf(o.PendingBalance)
}

// PaymentStateOf 根据待收余额计算付款状态
func PaymentStateOf(pending Money) string {
	switch {
	case pending.IsNegative():
		return constants.PaymentStateOverpaid
	case pending.IsPositive():
		return constants.PaymentStatePending
	default:
		return constants.PaymentStatePaid
	}
}
