package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense 支出记录
type Expense struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                // 主键
	StoreID          uint           `gorm:"index;not null;default:0" json:"store_id"`            // 门店（0 表示公共支出）
	Category         string         `gorm:"type:varchar(30);index;not null" json:"category"`     // 分类
	Amount           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 金额
	SpentOn          time.Time      `gorm:"index;not null" json:"spent_on"`                      // 支出日期
	Vendor           string         `gorm:"type:varchar(200);default:''" json:"vendor"`          // 供应商
	Note             string         `gorm:"type:text" json:"note"`                               // 备注
	CreatedByAdminID uint           `gorm:"index;not null;default:0" json:"created_by_admin_id"` // 录入管理员
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (Expense) TableName() string {
	return "expenses"
}
