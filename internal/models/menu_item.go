package models

import (
	"time"

	"github.com/tiffin-desk/internal/draft"

	"gorm.io/gorm"
)

// MenuItem 菜单项表，三档份量价格可空（为空表示该份量不提供）
type MenuItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Category    string         `gorm:"type:varchar(100);index;not null;default:''" json:"category"` // 分类
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`                      // 名称
	Description string         `gorm:"type:text" json:"description"`                                // 描述
	SmallPrice  *Money         `gorm:"type:decimal(20,2)" json:"small_price"`                       // 小份价格
	MediumPrice *Money         `gorm:"type:decimal(20,2)" json:"medium_price"`                      // 中份价格
	LargePrice  *Money         `gorm:"type:decimal(20,2)" json:"large_price"`                       // 大份价格
	IsVeg       bool           `gorm:"not null;default:false" json:"is_veg"`                        // 是否素食
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                             // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                           // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}

// Prices 返回已定价份量的价格表
func (m MenuItem) Prices() map[draft.Size]Money {
	prices := make(map[draft.Size]Money, 3)
	if m.SmallPrice != nil {
		prices[draft.SizeSmall] = *m.SmallPrice
	}
	if m.MediumPrice != nil {
		prices[draft.SizeMedium] = *m.MediumPrice
	}
	if m.LargePrice != nil {
		prices[draft.SizeLarge] = *m.LargePrice
	}
	return prices
}

// PriceFor 按份量查询价格
func (m MenuItem) PriceFor(size draft.Size) (Money, bool) {
	price, ok := m.Prices()[size]
	return price, ok
}
