package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceAdminWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("line_cook", "/admin/orders/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetAdminRoles(1, []string{"line_cook"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "get")
	if err != nil || !allow {
		t.Fatalf("expected allow, got allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(1, "/api/v1/admin/orders/42", "PATCH")
	if err != nil || allow {
		t.Fatalf("expected deny, got allow=%v err=%v", allow, err)
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("front", "/admin/drafts", "POST"); err != nil {
		t.Fatalf("grant front policy failed: %v", err)
	}
	if err := svc.GrantRolePolicy("books", "/admin/expenses", "GET"); err != nil {
		t.Fatalf("grant books policy failed: %v", err)
	}

	if err := svc.SetAdminRoles(2, []string{"front"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetAdminRoles(2, []string{"books"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:books" {
		t.Fatalf("roles want [role:books], got=%v", roles)
	}
	if allow, _ := svc.EnforceAdmin(2, "/admin/drafts", "POST"); allow {
		t.Fatalf("expected old role permission removed")
	}
	if allow, _ := svc.EnforceAdmin(2, "/admin/expenses", "GET"); !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/tiffins/:id", want: "/admin/tiffins/:id"},
		{in: "/admin/deliveries/:id", want: "/admin/deliveries/:id"},
		{in: "admin/zones", want: "/admin/zones"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		if got := NormalizeObject(item.in); got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复执行不应报错
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	want := map[string]bool{
		"role:manager":    true,
		"role:order_desk": true,
		"role:kitchen":    true,
		"role:delivery":   true,
		"role:accountant": true,
	}
	for _, role := range roles {
		delete(want, role)
	}
	if len(want) != 0 {
		t.Fatalf("builtin roles missing: %v", want)
	}

	cases := []struct {
		role   string
		path   string
		method string
		allow  bool
	}{
		{"manager", "/api/v1/admin/settings", "PUT", true},
		{"order_desk", "/api/v1/admin/drafts/abc/actions", "POST", true},
		{"order_desk", "/api/v1/admin/expenses", "POST", false},
		{"kitchen", "/api/v1/admin/orders/7", "PATCH", true},
		{"kitchen", "/api/v1/admin/orders/7/payments", "POST", false},
		{"delivery", "/api/v1/admin/deliveries/3", "PATCH", true},
		{"delivery", "/api/v1/admin/menu-items", "POST", false},
		{"accountant", "/api/v1/admin/reports/overview", "GET", true},
		{"accountant", "/api/v1/admin/orders/7/payments", "POST", true},
		{"accountant", "/api/v1/admin/orders/7", "PATCH", false},
	}
	for i, tc := range cases {
		adminID := uint(100 + i)
		if err := svc.SetAdminRoles(adminID, []string{tc.role}); err != nil {
			t.Fatalf("set roles failed: %v", err)
		}
		allow, err := svc.EnforceAdmin(adminID, tc.path, tc.method)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.method, tc.path, err)
		}
		if allow != tc.allow {
			t.Fatalf("%s %s %s: allow=%v want %v", tc.role, tc.method, tc.path, allow, tc.allow)
		}
	}
}

func TestDeleteRoleProtectsBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.DeleteRole("Kitchen"); !errors.Is(err, ErrRoleBuiltin) {
		t.Fatalf("expected ErrRoleBuiltin, got %v", err)
	}

	if err := svc.GrantRolePolicy("weekend crew", "/admin/deliveries", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.SetAdminRoles(9, []string{"weekend crew"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	if err := svc.DeleteRole("role:weekend_crew"); err != nil {
		t.Fatalf("delete custom role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(9)
	if err != nil || len(roles) != 0 {
		t.Fatalf("admin should lose deleted role, got %v err=%v", roles, err)
	}
	if allow, _ := svc.EnforceAdmin(9, "/api/v1/admin/deliveries", "GET"); allow {
		t.Fatalf("deleted role should no longer grant access")
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  error
	}{
		{in: "Order Desk", want: "role:order_desk"},
		{in: "role:kitchen", want: "role:kitchen"},
		{in: "  ", err: ErrRoleRequired},
		{in: "role:", err: ErrRoleRequired},
		{in: "__anchor__", err: ErrRoleReserved},
	}
	for _, tc := range cases {
		got, err := NormalizeRole(tc.in)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Fatalf("normalize %q want err %v got %v", tc.in, tc.err, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("normalize %q want %q got %q err=%v", tc.in, tc.want, got, err)
		}
	}
}

func TestListRoleSummaries(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if _, err := svc.EnsureRole("Night Shift"); err != nil {
		t.Fatalf("ensure role failed: %v", err)
	}
	for _, id := range []uint{1, 2} {
		if err := svc.SetAdminRoles(id, []string{"kitchen"}); err != nil {
			t.Fatalf("set roles failed: %v", err)
		}
	}

	summaries, err := svc.ListRoleSummaries()
	if err != nil {
		t.Fatalf("list summaries failed: %v", err)
	}
	byRole := make(map[string]RoleSummary, len(summaries))
	for _, item := range summaries {
		byRole[item.Role] = item
	}
	kitchen := byRole["role:kitchen"]
	if !kitchen.Builtin || kitchen.Members != 2 || kitchen.Policies == 0 {
		t.Fatalf("unexpected kitchen summary: %+v", kitchen)
	}
	night, ok := byRole["role:night_shift"]
	if !ok || night.Builtin || night.Members != 0 || night.Policies != 0 {
		t.Fatalf("unexpected custom role summary: %+v ok=%v", night, ok)
	}
	if _, ok := byRole[roleAnchor]; ok {
		t.Fatalf("anchor must not be listed")
	}
}

func TestAdminRolesIncludeInherited(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("senior_cook", "/admin/menu-items/:id", "PATCH"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	senior, _ := NormalizeRole("senior_cook")
	cook, err := svc.EnsureRole("cook")
	if err != nil {
		t.Fatalf("ensure cook failed: %v", err)
	}
	if err := svc.link(senior, cook); err != nil {
		t.Fatalf("link inheritance failed: %v", err)
	}
	if err := svc.GrantRolePolicy("cook", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant cook failed: %v", err)
	}
	if err := svc.SetAdminRoles(4, []string{"senior_cook"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	roles, err := svc.GetAdminRoles(4)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "role:cook" || roles[1] != "role:senior_cook" {
		t.Fatalf("unexpected roles: %v", roles)
	}
	policies, err := svc.GetAdminPolicies(4)
	if err != nil || len(policies) != 2 {
		t.Fatalf("expected two effective policies, got %v err=%v", policies, err)
	}
	if allow, _ := svc.EnforceAdmin(4, "/api/v1/admin/orders", "GET"); !allow {
		t.Fatalf("inherited policy should allow")
	}
}
