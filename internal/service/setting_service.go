package service

import (
	"fmt"
	"maps"
	"strings"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// fieldNormalizer 校验并规范化单个设置字段
type fieldNormalizer func(raw interface{}) (interface{}, bool)

// settingSchemas 可写入的设置键及字段；未列出的字段写入时丢弃
var settingSchemas = map[string]map[string]fieldNormalizer{
	constants.SettingKeyOrderConfig: {
		constants.SettingFieldTaxRate:         percentField,
		constants.SettingFieldCurrency:        currencyField,
		constants.SettingFieldDraftTTLMinutes: positiveIntField,
		constants.SettingFieldRenewalLeadDays: positiveIntField,
	},
	constants.SettingKeyBusinessConfig: {
		constants.SettingFieldBusinessName:    textField,
		constants.SettingFieldBusinessAddress: textField,
		constants.SettingFieldBusinessPhone:   textField,
		constants.SettingFieldInvoiceFooter:   textField,
	},
}

var maxTaxRate = decimal.NewFromInt(100)

// SettingService 后台可改的门店设置，存于 settings 表，按键整体保存 JSON
type SettingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// GetByKey 未保存过的键返回 nil
func (s *SettingService) GetByKey(key string) (models.JSON, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil || setting == nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// All 全部已保存设置，键为设置名
func (s *SettingService) All() (map[string]models.JSON, error) {
	rows, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.JSON, len(rows))
	for _, row := range rows {
		out[row.Key] = row.ValueJSON
	}
	return out, nil
}

// GetWithDefaults 已保存字段覆盖 defaults
func (s *SettingService) GetWithDefaults(key string, defaults map[string]interface{}) (models.JSON, error) {
	stored, err := s.GetByKey(key)
	if err != nil {
		return nil, err
	}
	out := models.JSON(maps.Clone(defaults))
	if out == nil {
		out = models.JSON{}
	}
	maps.Copy(out, stored)
	return out, nil
}

// Update 与已保存的值合并后整体写回
func (s *SettingService) Update(key string, value map[string]interface{}) (models.JSON, error) {
	normalized, err := normalizeSetting(key, value)
	if err != nil {
		return nil, err
	}
	merged, err := s.GetWithDefaults(key, nil)
	if err != nil {
		return nil, err
	}
	maps.Copy(merged, normalized)
	setting, err := s.repo.Upsert(key, merged)
	if err != nil {
		return nil, err
	}
	return setting.ValueJSON, nil
}

// GetTaxRate 税率百分比；未设置时用 fallback（来自配置文件）
func (s *SettingService) GetTaxRate(fallback float64) (decimal.Decimal, error) {
	rate := decimal.NewFromFloat(fallback)
	raw, ok, err := s.field(constants.SettingKeyOrderConfig, constants.SettingFieldTaxRate)
	if err != nil || !ok {
		return rate, err
	}
	stored, err := toDecimal(raw)
	if err != nil {
		return rate, err
	}
	return stored, nil
}

// GetInt 字段缺失或不为正数时返回 fallback
func (s *SettingService) GetInt(key, field string, fallback int) (int, error) {
	raw, ok, err := s.field(key, field)
	if err != nil || !ok {
		return fallback, err
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return fallback, err
	}
	if n <= 0 {
		return fallback, nil
	}
	return n, nil
}

func (s *SettingService) field(key, field string) (interface{}, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	stored, err := s.GetByKey(key)
	if err != nil {
		return nil, false, err
	}
	raw, ok := stored[field]
	return raw, ok, nil
}

func normalizeSetting(key string, value map[string]interface{}) (models.JSON, error) {
	schema, ok := settingSchemas[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %s", ErrSettingInvalid, key)
	}
	out := models.JSON{}
	for field, raw := range value {
		normalize, known := schema[field]
		if !known {
			continue
		}
		v, valid := normalize(raw)
		if !valid {
			return nil, fmt.Errorf("%w: %s", ErrSettingInvalid, field)
		}
		out[field] = v
	}
	return out, nil
}

func toDecimal(raw interface{}) (decimal.Decimal, error) {
	text, err := cast.ToStringE(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(strings.TrimSpace(text))
}

// percentField 0 到 100，保留三位小数
func percentField(raw interface{}) (interface{}, bool) {
	rate, err := toDecimal(raw)
	if err != nil || rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
		return nil, false
	}
	f, _ := rate.Round(3).Float64()
	return f, true
}

// currencyField ISO 4217 三位代码
func currencyField(raw interface{}) (interface{}, bool) {
	code := strings.ToUpper(strings.TrimSpace(cast.ToString(raw)))
	return code, len(code) == 3
}

func positiveIntField(raw interface{}) (interface{}, bool) {
	n, err := cast.ToIntE(raw)
	return n, err == nil && n > 0
}

func textField(raw interface{}) (interface{}, bool) {
	return strings.TrimSpace(cast.ToString(raw)), true
}
