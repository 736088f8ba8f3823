package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 客户表（下单时按手机号自动建档）
type Customer struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`             // 姓名
	Phone       string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"phone"` // 手机号
	Email       string         `gorm:"type:varchar(200);default:''" json:"email"`          // 邮箱
	Address     string         `gorm:"type:text" json:"address"`                           // 最近一次地址
	PostalCode  string         `gorm:"type:varchar(20);index" json:"postal_code"`          // 邮编
	Note        string         `gorm:"type:text" json:"note"`                              // 备注
	OrderCount  int            `gorm:"not null;default:0" json:"order_count"`              // 下单次数
	LastOrderAt *time.Time     `gorm:"index" json:"last_order_at"`                         // 最近下单时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
