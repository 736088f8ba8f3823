package models

import "time"

// OrderEvent 订单操作流水（状态变更、收款、改单）
type OrderEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	SourceType string    `gorm:"type:varchar(20);index:idx_order_event_source;not null" json:"source_type"`
	SourceID   uint      `gorm:"index:idx_order_event_source;not null" json:"source_id"`
	Action     string    `gorm:"type:varchar(50);index;not null" json:"action"`
	FromStatus string    `gorm:"type:varchar(32);not null;default:''" json:"from_status"`
	ToStatus   string    `gorm:"type:varchar(32);not null;default:''" json:"to_status"`
	Amount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	AdminID    uint      `gorm:"index;not null;default:0" json:"admin_id"`
	RequestID  string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON JSON      `gorm:"type:json" json:"detail"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (OrderEvent) TableName() string {
	return "order_events"
}
