package models

import (
	"strings"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	ownerUsername = "admin"
	ownerPassword = "admin123"
)

// SeedOwnerAccount 账号表为空时创建店主超级管理员。
// 已有账号则不改动，只在没有可用超级管理员时告警
func SeedOwnerAccount(username, password string) error {
	var total, supers int64
	if err := DB.Model(&Admin{}).Count(&total).Error; err != nil {
		return err
	}
	if total > 0 {
		if err := DB.Model(&Admin{}).Where("is_super = ? AND is_active = ?", true, true).Count(&supers).Error; err != nil {
			return err
		}
		if supers == 0 {
			logger.Warnw("owner_account_missing", "accounts", total)
		}
		return nil
	}

	if username = strings.TrimSpace(username); username == "" {
		username = ownerUsername
	}
	if password == "" {
		password = ownerPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	owner := Admin{
		Username:     username,
		DisplayName:  "Owner",
		PasswordHash: string(hash),
		IsSuper:      true,
		IsActive:     true,
	}
	if err := DB.Create(&owner).Error; err != nil {
		return err
	}
	logger.Warnw("owner_account_created",
		"username", username,
		"default_password", password == ownerPassword,
	)
	return nil
}

// SeedOrderSettings 首次启动时把配置文件里的税率与币种写入设置表，已存在则保留
func SeedOrderSettings(taxRate float64, currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	setting := Setting{}
	result := DB.Where(&Setting{Key: constants.SettingKeyOrderConfig}).
		Attrs(Setting{ValueJSON: JSON{
			constants.SettingFieldTaxRate:  taxRate,
			constants.SettingFieldCurrency: currency,
		}}).
		FirstOrCreate(&setting)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infow("order_settings_seeded", "tax_rate", taxRate, "currency", currency)
	}
	return nil
}
