package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 门店
type Store struct {
	ID         uint           `gorm:"primarykey" json:"id"`                              // 主键
	Code       string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"` // 门店编码
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`            // 门店名称
	Address    string         `gorm:"type:text" json:"address"`                          // 地址
	Phone      string         `gorm:"type:varchar(40);default:''" json:"phone"`          // 电话
	PostalCode string         `gorm:"type:varchar(20);default:''" json:"postal_code"`    // 邮编
	IsActive   bool           `gorm:"not null;index" json:"is_active"`                   // 是否营业
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}

// Staff 员工
type Staff struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                     // 主键
	StoreID    uint           `gorm:"index;not null" json:"store_id"`                           // 所属门店
	Name       string         `gorm:"type:varchar(100);not null" json:"name"`                   // 姓名
	Phone      string         `gorm:"type:varchar(40);default:''" json:"phone"`                 // 手机号
	Role       string         `gorm:"type:varchar(20);index;not null" json:"role"`              // 岗位
	HourlyRate Money          `gorm:"type:decimal(20,2);not null;default:0" json:"hourly_rate"` // 时薪
	Status     string         `gorm:"type:varchar(20);index;not null" json:"status"`            // 在职状态
	JoinedAt   *time.Time     `json:"joined_at"`                                                // 入职日期
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"` // 门店
}

// TableName 指定表名
func (Staff) TableName() string {
	return "staff"
}
