package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/tiffin-desk/internal/draft"
)

// LineItems 菜单菜品行快照（JSON 列）
type LineItems []draft.LineItem

// Value 实现 driver.Valuer 接口
func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan 实现 sql.Scanner 接口
func (items *LineItems) Scan(value interface{}) error {
	return scanJSONColumn(value, items, func() { *items = LineItems{} })
}

// CustomLineItems 自定义菜品行快照（JSON 列）
type CustomLineItems []draft.CustomLineItem

// Value 实现 driver.Valuer 接口
func (items CustomLineItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return json.Marshal(items)
}

// Scan 实现 sql.Scanner 接口
func (items *CustomLineItems) Scan(value interface{}) error {
	return scanJSONColumn(value, items, func() { *items = CustomLineItems{} })
}
