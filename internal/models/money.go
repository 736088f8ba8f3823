package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

// Money 金额，四舍五入到分；JSON 与数据库中均为 "12.50" 形式的字符串
type Money struct {
	decimal.Decimal
}

func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(moneyScale)}
}

// NewMoneyFromString 空串视为 0
func NewMoneyFromString(raw string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Money{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, err
	}
	return NewMoneyFromDecimal(d), nil
}

// MoneyPtr 可空价格列（菜单的小/中/大份）
func MoneyPtr(amount decimal.Decimal) *Money {
	m := NewMoneyFromDecimal(amount)
	return &m
}

func (m Money) fixed() string {
	return m.Decimal.StringFixed(moneyScale)
}

func (m Money) String() string {
	return m.fixed()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.fixed())
}

// UnmarshalJSON 接受 "12.5" 与 12.5 两种写法，null 保持原值
func (m *Money) UnmarshalJSON(b []byte) error {
	text := strings.TrimSpace(string(b))
	if text == "" || text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
	}
	parsed, err := NewMoneyFromString(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.fixed(), nil
}

// Scan NULL 读为 0
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if value != nil {
		if err := d.Scan(value); err != nil {
			return err
		}
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
