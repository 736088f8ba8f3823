package router

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/tiffin-desk/internal/authz"

	"github.com/gin-gonic/gin"
)

const adminRoutePrefix = "/api/v1/admin/"

// 登录前可访问的后台路由，不参与授权
var anonymousAdminRoutes = map[string]bool{
	adminRoutePrefix + "login":   true,
	adminRoutePrefix + "captcha": true,
}

// 资源首段到权限分组的归并，未列出的以首段本身为分组
var permissionModules = map[string]string{
	"drafts":     "orders",
	"customers":  "orders",
	"zones":      "delivery",
	"drivers":    "delivery",
	"deliveries": "delivery",
	"staff":      "stores",
	"expenses":   "stores",
	"menu-items": "menu",
}

// permissionEntry 可授权的一条后台接口，Permission 形如 GET:/admin/orders/:id
type permissionEntry struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog 由已注册路由生成可授权接口清单，供岗位配置界面选择
func buildPermissionCatalog(routes gin.RoutesInfo) []permissionEntry {
	entries := make([]permissionEntry, 0, len(routes))
	for _, route := range routes {
		method := strings.ToUpper(route.Method)
		if method == http.MethodOptions || method == http.MethodHead {
			continue
		}
		if !strings.HasPrefix(route.Path, adminRoutePrefix) || anonymousAdminRoutes[route.Path] {
			continue
		}
		object := authz.NormalizeObject(route.Path)
		entries = append(entries, permissionEntry{
			Module:     permissionModule(object),
			Method:     method,
			Object:     object,
			Permission: method + ":" + object,
		})
	}
	slices.SortFunc(entries, func(a, b permissionEntry) int {
		return cmp.Or(
			cmp.Compare(a.Module, b.Module),
			cmp.Compare(a.Object, b.Object),
			cmp.Compare(a.Method, b.Method),
		)
	})
	return slices.CompactFunc(entries, func(a, b permissionEntry) bool {
		return a.Permission == b.Permission
	})
}

// permissionModule /admin/<resource>/... 按 resource 分组
func permissionModule(object string) string {
	segments := strings.Split(strings.Trim(object, "/"), "/")
	if segments[0] == "" {
		return "system"
	}
	if segments[0] != "admin" || len(segments) == 1 {
		return segments[0]
	}
	if module, ok := permissionModules[segments[1]]; ok {
		return module
	}
	return segments[1]
}
