package service

import (
	"errors"
	"testing"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/repository"
)

func TestNormalizeSettingOrderConfig(t *testing.T) {
	out, err := normalizeSetting(constants.SettingKeyOrderConfig, map[string]interface{}{
		constants.SettingFieldTaxRate:         "8.125",
		constants.SettingFieldCurrency:        " cad ",
		constants.SettingFieldDraftTTLMinutes: float64(90),
		"unknown_field":                       "dropped",
	})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if out[constants.SettingFieldTaxRate] != 8.125 {
		t.Fatalf("tax_rate = %v", out[constants.SettingFieldTaxRate])
	}
	if out[constants.SettingFieldCurrency] != "CAD" {
		t.Fatalf("currency = %v", out[constants.SettingFieldCurrency])
	}
	if out[constants.SettingFieldDraftTTLMinutes] != 90 {
		t.Fatalf("draft ttl = %v", out[constants.SettingFieldDraftTTLMinutes])
	}
	if _, ok := out["unknown_field"]; ok {
		t.Fatalf("unknown fields should be dropped")
	}
}

func TestNormalizeSettingRejectsInvalid(t *testing.T) {
	cases := []struct {
		key   string
		value map[string]interface{}
	}{
		{constants.SettingKeyOrderConfig, map[string]interface{}{constants.SettingFieldTaxRate: "-1"}},
		{constants.SettingKeyOrderConfig, map[string]interface{}{constants.SettingFieldTaxRate: "101"}},
		{constants.SettingKeyOrderConfig, map[string]interface{}{constants.SettingFieldCurrency: "dollars"}},
		{constants.SettingKeyOrderConfig, map[string]interface{}{constants.SettingFieldRenewalLeadDays: 0}},
		{"site_config", map[string]interface{}{"a": "b"}},
	}
	for _, tc := range cases {
		if _, err := normalizeSetting(tc.key, tc.value); !errors.Is(err, ErrSettingInvalid) {
			t.Fatalf("%s %v: expected ErrSettingInvalid, got %v", tc.key, tc.value, err)
		}
	}
}

func TestSettingServiceMergesUpdates(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewSettingService(repository.NewSettingRepository(db))

	if _, err := svc.Update(constants.SettingKeyBusinessConfig, map[string]interface{}{
		constants.SettingFieldBusinessName: "  Spice Route  ",
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	merged, err := svc.Update(constants.SettingKeyBusinessConfig, map[string]interface{}{
		constants.SettingFieldBusinessPhone: "416-555-0100",
	})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if merged[constants.SettingFieldBusinessName] != "Spice Route" || merged[constants.SettingFieldBusinessPhone] != "416-555-0100" {
		t.Fatalf("unexpected merged setting: %v", merged)
	}

	rate, err := svc.GetTaxRate(5)
	if err != nil || rate.String() != "5" {
		t.Fatalf("expected fallback tax rate 5, got %s err=%v", rate, err)
	}
	if _, err := svc.Update(constants.SettingKeyOrderConfig, map[string]interface{}{constants.SettingFieldRenewalLeadDays: "7"}); err != nil {
		t.Fatalf("update order config failed: %v", err)
	}
	days, err := svc.GetInt(constants.SettingKeyOrderConfig, constants.SettingFieldRenewalLeadDays, 3)
	if err != nil || days != 7 {
		t.Fatalf("renewal lead days = %d err=%v", days, err)
	}

	all, err := svc.All()
	if err != nil {
		t.Fatalf("list settings failed: %v", err)
	}
	if len(all) != 2 || all[constants.SettingKeyBusinessConfig][constants.SettingFieldBusinessName] != "Spice Route" {
		t.Fatalf("unexpected settings: %v", all)
	}
}
