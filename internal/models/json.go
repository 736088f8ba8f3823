package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON 对象列（设置值、订单事件详情）
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	return scanJSONColumn(value, j, func() { *j = JSON{} })
}

// StringArray 字符串数组列：邮编前缀、配送星期。nil 写入为 []
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	return scanJSONColumn(value, s, func() { *s = StringArray{} })
}

// scanJSONColumn NULL 与空串走 reset；sqlite 驱动给 string，postgres 给 []byte
func scanJSONColumn(value interface{}, dst interface{}, reset func()) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("models: cannot scan %T into json column", value)
	}
	if len(raw) == 0 {
		reset()
		return nil
	}
	return json.Unmarshal(raw, dst)
}
