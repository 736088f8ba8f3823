package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/tiffin-desk/internal/authz"
	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/provider"
	"github.com/tiffin-desk/internal/repository"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAccountHandlerTest(t *testing.T) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_account_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: "account-test-secret", ExpireHours: 1},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{MinLength: 8}},
	}
	adminRepo := repository.NewAdminRepository(db)
	return New(&provider.Container{
		Config:       cfg,
		AdminRepo:    adminRepo,
		AuthzService: authzService,
		AuthService:  service.NewAuthService(cfg, adminRepo),
	})
}

func TestCreateAuthzAdmin(t *testing.T) {
	h := setupAccountHandlerTest(t)

	created := call(t, h.CreateAuthzAdmin, http.MethodPost, "/api/v1/admin/authz/admins", map[string]interface{}{
		"username": "kitchen1",
		"password": "Kitchen2030",
		"is_super": true,
		"roles":    []string{"kitchen"},
	}, nil, 1)
	if created.StatusCode != 0 {
		t.Fatalf("create account failed: %d %s", created.StatusCode, created.Msg)
	}
	var view staffAccountView
	if err := json.Unmarshal(created.Data, &view); err != nil {
		t.Fatalf("decode account failed: %v", err)
	}
	if view.IsSuper {
		t.Fatalf("non-super operator must not grant super admin")
	}
	if len(view.Roles) != 1 || view.Roles[0] != "role:kitchen" {
		t.Fatalf("unexpected roles: %+v", view.Roles)
	}

	cases := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{name: "duplicate username", body: map[string]interface{}{"username": "KITCHEN1", "password": "Kitchen2030"}, want: 400},
		{name: "weak password", body: map[string]interface{}{"username": "front", "password": "short"}, want: 400},
		{name: "missing password", body: map[string]interface{}{"username": "front"}, want: 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, h.CreateAuthzAdmin, http.MethodPost, "/api/v1/admin/authz/admins", tc.body, nil, 1)
			if resp.StatusCode != tc.want {
				t.Fatalf("want %d got %d (%s)", tc.want, resp.StatusCode, resp.Msg)
			}
		})
	}

	listed := call(t, h.ListAuthzAdmins, http.MethodGet, "/api/v1/admin/authz/admins", nil, nil, 1)
	var views []staffAccountView
	if err := json.Unmarshal(listed.Data, &views); err != nil || len(views) != 1 {
		t.Fatalf("expected one account, got %d err=%v", len(views), err)
	}
}

func TestSetAuthzAdminActive(t *testing.T) {
	h := setupAccountHandlerTest(t)
	owner, err := h.AuthService.CreateAdmin(service.CreateAdminInput{Username: "owner", Password: "Owner2030x", IsSuper: true})
	if err != nil {
		t.Fatalf("create owner failed: %v", err)
	}
	params := gin.Params{{Key: "id", Value: fmt.Sprint(owner.ID)}}

	self := call(t, h.SetAuthzAdminActive, http.MethodPatch, "/api/v1/admin/authz/admins/1/active",
		map[string]bool{"active": false}, params, owner.ID)
	if self.StatusCode != 400 {
		t.Fatalf("disabling self should fail, got %d", self.StatusCode)
	}

	missing := call(t, h.SetAuthzAdminActive, http.MethodPatch, "/api/v1/admin/authz/admins/99/active",
		map[string]bool{"active": false}, gin.Params{{Key: "id", Value: "99"}}, owner.ID)
	if missing.StatusCode != 404 {
		t.Fatalf("unknown account should be 404, got %d", missing.StatusCode)
	}

	noBody := call(t, h.SetAuthzAdminActive, http.MethodPatch, "/api/v1/admin/authz/admins/1/active",
		map[string]string{}, params, owner.ID)
	if noBody.StatusCode != 400 {
		t.Fatalf("missing active flag should be 400, got %d", noBody.StatusCode)
	}
}

func TestRoleHandlers(t *testing.T) {
	h := setupAccountHandlerTest(t)

	builtin := call(t, h.DeleteAuthzRole, http.MethodDelete, "/api/v1/admin/authz/roles/kitchen", nil,
		gin.Params{{Key: "role", Value: "kitchen"}}, 1)
	if builtin.StatusCode != 400 {
		t.Fatalf("builtin role delete should be rejected, got %d", builtin.StatusCode)
	}

	created := call(t, h.CreateAuthzRole, http.MethodPost, "/api/v1/admin/authz/roles",
		map[string]string{"role": "Night Shift"}, nil, 1)
	if created.StatusCode != 0 {
		t.Fatalf("create role failed: %d %s", created.StatusCode, created.Msg)
	}

	granted := call(t, h.GrantAuthzPolicy, http.MethodPost, "/api/v1/admin/authz/policies", map[string]string{
		"role":   "night_shift",
		"object": "/api/v1/admin/orders",
		"action": "get",
	}, nil, 1)
	if granted.StatusCode != 0 {
		t.Fatalf("grant policy failed: %d %s", granted.StatusCode, granted.Msg)
	}

	policies := call(t, h.GetAuthzRolePolicies, http.MethodGet, "/api/v1/admin/authz/roles/role%3Anight_shift/policies", nil,
		gin.Params{{Key: "role", Value: "role%3Anight_shift"}}, 1)
	var got []authz.Policy
	if err := json.Unmarshal(policies.Data, &got); err != nil {
		t.Fatalf("decode policies failed: %v", err)
	}
	if len(got) != 1 || got[0].Object != "/admin/orders" || got[0].Action != "GET" {
		t.Fatalf("unexpected policies: %+v", got)
	}

	deleted := call(t, h.DeleteAuthzRole, http.MethodDelete, "/api/v1/admin/authz/roles/night_shift", nil,
		gin.Params{{Key: "role", Value: "night_shift"}}, 1)
	if deleted.StatusCode != 0 {
		t.Fatalf("delete custom role failed: %d %s", deleted.StatusCode, deleted.Msg)
	}
}
