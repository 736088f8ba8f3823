package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TiffinOrder 包月送餐订阅表
type TiffinOrder struct {
	ID               uint            `gorm:"primarykey" json:"id"`                                               // 主键
	SubscriptionNo   string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"subscription_no"`       // 订阅编号
	CustomerID       uint            `gorm:"index;not null" json:"customer_id"`                                  // 客户ID
	CustomerName     string          `gorm:"type:varchar(200);not null" json:"customer_name"`                    // 客户姓名
	CustomerPhone    string          `gorm:"type:varchar(40);index;not null" json:"customer_phone"`              // 客户手机号
	DeliveryAddress  string          `gorm:"type:text" json:"delivery_address"`                                  // 配送地址
	PostalCode       string          `gorm:"type:varchar(20);index" json:"postal_code"`                          // 邮编
	ZoneID           *uint           `gorm:"index" json:"zone_id,omitempty"`                                     // 配送区域
	PlanName         string          `gorm:"type:varchar(100);not null" json:"plan_name"`                        // 套餐名称
	MealType         string          `gorm:"type:varchar(20);not null" json:"meal_type"`                         // 餐型
	TiffinsPerDay    int             `gorm:"not null;default:1" json:"tiffins_per_day"`                          // 每日份数
	PricePerTiffin   Money           `gorm:"type:decimal(20,2);not null;default:0" json:"price_per_tiffin"`      // 单份价格
	StartDate        time.Time       `gorm:"index;not null" json:"start_date"`                                   // 开始日期
	EndDate          time.Time       `gorm:"index;not null" json:"end_date"`                                     // 结束日期
	DeliveryDays     StringArray     `gorm:"type:json" json:"delivery_days"`                                     // 配送星期（mon..sun）
	DeliveryDayCount int             `gorm:"not null;default:0" json:"delivery_day_count"`                       // 期内配送天数
	Status           string          `gorm:"type:varchar(20);index;not null" json:"status"`                      // 订阅状态
	Note             string          `gorm:"type:text" json:"note"`                                              // 备注
	TaxExempt        bool            `gorm:"not null;default:false" json:"tax_exempt"`                           // 是否免税
	TaxRate          decimal.Decimal `gorm:"type:decimal(7,3);not null;default:0" json:"tax_rate"`               // 税率（百分比）
	Subtotal         Money           `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`              // 小计
	TaxAmount        Money           `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`            // 税额
	DeliveryCharge   Money           `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_charge"`       // 配送费
	Discount         Money           `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`              // 优惠
	AdvancePaid      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"advance_paid"`          // 已预付
	TotalAmount      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`          // 总额
	PendingBalance   Money           `gorm:"type:decimal(20,2);not null;default:0;index" json:"pending_balance"` // 待收余额
	RenewedFromID    *uint           `gorm:"index" json:"renewed_from_id,omitempty"`                             // 续订来源
	ReminderSentAt   *time.Time      `gorm:"index" json:"reminder_sent_at"`                                      // 续订提醒时间
	PausedAt         *time.Time      `json:"paused_at"`                                                          // 暂停时间
	CanceledAt       *time.Time      `json:"canceled_at"`                                                        // 取消时间
	CreatedByAdminID uint            `gorm:"index;not null;default:0" json:"created_by_admin_id"`                // 录单管理员
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt        time.Time       `gorm:"index" json:"updated_at"`                                            // 更新时间
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`                                                     // 软删除时间
}

// TableName 指定表名
func (TiffinOrder) TableName() string {
	return "tiffin_orders"
}

// PaymentState 派生付款状态
func (o TiffinOrder) PaymentState() string {
	return PaymentStateOf(o.PendingBalance)
}
