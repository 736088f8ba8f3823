package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryZone 配送区域，按邮编前缀匹配
type DeliveryZone struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	Name           string         `gorm:"type:varchar(100);not null" json:"name"`                       // 区域名称
	PostalPrefixes StringArray    `gorm:"type:json" json:"postal_prefixes"`                             // 邮编前缀（已规范化）
	DeliveryCharge Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_charge"` // 配送费
	IsActive       bool           `gorm:"not null;index" json:"is_active"`                              // 是否启用
	SortOrder      int            `gorm:"default:0;index" json:"sort_order"`                            // 排序权重
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                   // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间
}

// TableName 指定表名
func (DeliveryZone) TableName() string {
	return "delivery_zones"
}

// Driver 配送员
type Driver struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键
	StaffID   *uint          `gorm:"index" json:"staff_id,omitempty"`               // 关联员工
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`        // 姓名
	Phone     string         `gorm:"type:varchar(40);not null" json:"phone"`        // 手机号
	VehicleNo string         `gorm:"type:varchar(40);default:''" json:"vehicle_no"` // 车牌号
	IsActive  bool           `gorm:"not null;index" json:"is_active"`               // 是否在岗
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Driver) TableName() string {
	return "drivers"
}

// Delivery 配送单：餐饮订单一单一条，包月订阅每个配送日一条
type Delivery struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                                             // 主键
	SourceType    string     `gorm:"type:varchar(20);uniqueIndex:idx_delivery_source_day;not null" json:"source_type"` // 来源类型
	SourceID      uint       `gorm:"uniqueIndex:idx_delivery_source_day;not null" json:"source_id"`                    // 来源ID
	ScheduledDate time.Time  `gorm:"uniqueIndex:idx_delivery_source_day;index;not null" json:"scheduled_date"`         // 计划配送日期
	OrderNo       string     `gorm:"type:varchar(40);index;not null" json:"order_no"`                                  // 订单/订阅编号
	ZoneID        *uint      `gorm:"index" json:"zone_id,omitempty"`                                                   // 配送区域
	DriverID      *uint      `gorm:"index" json:"driver_id,omitempty"`                                                 // 配送员
	CustomerName  string     `gorm:"type:varchar(200);not null" json:"customer_name"`                                  // 收件人
	CustomerPhone string     `gorm:"type:varchar(40);not null" json:"customer_phone"`                                  // 收件人手机号
	Address       string     `gorm:"type:text" json:"address"`                                                         // 地址
	PostalCode    string     `gorm:"type:varchar(20)" json:"postal_code"`                                              // 邮编
	Status        string     `gorm:"type:varchar(32);index;not null" json:"status"`                                    // 配送状态
	FailedReason  string     `gorm:"type:text" json:"failed_reason"`                                                   // 失败原因
	AssignedAt    *time.Time `json:"assigned_at"`                                                                      // 派单时间
	DispatchedAt  *time.Time `json:"dispatched_at"`                                                                    // 出发时间
	DeliveredAt   *time.Time `json:"delivered_at"`                                                                     // 送达时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                                                          // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                                                       // 更新时间

	Driver *Driver       `gorm:"foreignKey:DriverID" json:"driver,omitempty"` // 配送员
	Zone   *DeliveryZone `gorm:"foreignKey:ZoneID" json:"zone,omitempty"`     // 配送区域
}

// TableName 指定表名
func (Delivery) TableName() string {
	return "deliveries"
}
