package router

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildPermissionCatalog(t *testing.T) {
	routes := gin.RoutesInfo{
		{Method: "POST", Path: "/api/v1/admin/login"},
		{Method: "GET", Path: "/api/v1/admin/captcha"},
		{Method: "GET", Path: "/api/v1/public/menu"},
		{Method: "OPTIONS", Path: "/api/v1/admin/orders"},
		{Method: "GET", Path: "/api/v1/admin/orders"},
		{Method: "PATCH", Path: "/api/v1/admin/orders/:id"},
		{Method: "POST", Path: "/api/v1/admin/drafts"},
		{Method: "GET", Path: "/api/v1/admin/deliveries"},
		{Method: "GET", Path: "/api/v1/admin/authz/roles"},
		{Method: "GET", Path: "/api/v1/admin/authz/roles"},
	}

	entries := buildPermissionCatalog(routes)
	if len(entries) != 5 {
		t.Fatalf("catalog should skip anonymous, public, preflight and duplicate routes, got %+v", entries)
	}
	byPermission := make(map[string]string, len(entries))
	for _, entry := range entries {
		byPermission[entry.Permission] = entry.Module
	}
	cases := map[string]string{
		"GET:/admin/orders":       "orders",
		"PATCH:/admin/orders/:id": "orders",
		"POST:/admin/drafts":      "orders",
		"GET:/admin/deliveries":   "delivery",
		"GET:/admin/authz/roles":  "authz",
	}
	for permission, module := range cases {
		if got := byPermission[permission]; got != module {
			t.Fatalf("%s module want %s got %q", permission, module, got)
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Module > entries[i].Module {
			t.Fatalf("catalog should be sorted by module: %+v", entries)
		}
	}
}

func TestPermissionModule(t *testing.T) {
	cases := map[string]string{
		"":                       "system",
		"/admin":                 "admin",
		"/admin/reports/revenue": "reports",
		"/admin/staff/:id":       "stores",
		"/admin/zones/match":     "delivery",
		"/admin/menu-items/:id":  "menu",
		"/public/menu":           "public",
	}
	for object, want := range cases {
		if got := permissionModule(object); got != want {
			t.Fatalf("module for %q want %s got %s", object, want, got)
		}
	}
}
