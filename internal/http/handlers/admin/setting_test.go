package admin

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tiffin-desk/internal/constants"
)

func TestSettingHandlers(t *testing.T) {
	h := setupAdminOrderHandlerTest(t)

	updated := call(t, h.UpdateSettings, http.MethodPut, "/api/v1/admin/settings", map[string]interface{}{
		"key":   constants.SettingKeyOrderConfig,
		"value": map[string]interface{}{"tax_rate": "13", "currency": "cad", "unknown": 1},
	}, nil, 1)
	if updated.StatusCode != 0 {
		t.Fatalf("update settings failed: %d %s", updated.StatusCode, updated.Msg)
	}

	invalid := call(t, h.UpdateSettings, http.MethodPut, "/api/v1/admin/settings", map[string]interface{}{
		"key":   "smtp_config",
		"value": map[string]interface{}{"host": "mail"},
	}, nil, 1)
	if invalid.StatusCode != 400 {
		t.Fatalf("unknown setting key should be 400, got %d", invalid.StatusCode)
	}

	one := call(t, h.GetSettings, http.MethodGet, "/api/v1/admin/settings?key=order_config", nil, nil, 1)
	var value map[string]interface{}
	if err := json.Unmarshal(one.Data, &value); err != nil {
		t.Fatalf("decode setting failed: %v", err)
	}
	if _, ok := value["unknown"]; ok || len(value) == 0 {
		t.Fatalf("unexpected stored setting: %v", value)
	}

	all := call(t, h.GetSettings, http.MethodGet, "/api/v1/admin/settings", nil, nil, 1)
	var settings map[string]map[string]interface{}
	if err := json.Unmarshal(all.Data, &settings); err != nil {
		t.Fatalf("decode settings failed: %v", err)
	}
	if len(settings) != 1 || settings[constants.SettingKeyOrderConfig] == nil {
		t.Fatalf("unexpected settings: %v", settings)
	}
}
