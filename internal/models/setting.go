package models

import "time"

// Setting 后台可改的门店设置，一个键一行，值为 JSON 对象
type Setting struct {
	Key       string    `gorm:"primarykey;type:varchar(100)" json:"key"`
	ValueJSON JSON      `gorm:"type:json" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
