package authz

import (
	"strconv"
	"strings"
)

const (
	apiV1Prefix   = "/api/v1"
	adminSubject  = "admin:"
	rolePrefix    = "role:"
	reservedRole  = "__anchor__"
	roleAnchor    = rolePrefix + reservedRole
	anyAction     = "*"
	objectRootDir = "/"
)

// SubjectForAdmin casbin 主体 admin:<id>
func SubjectForAdmin(adminID uint) string {
	return adminSubject + strconv.FormatUint(uint64(adminID), 10)
}

// NormalizeRole 岗位名统一为小写 role:<name>，空格转下划线。
// "Order Desk" 与 "role:order_desk" 指向同一岗位
func NormalizeRole(role string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)
	name = strings.ToLower(strings.Join(strings.Fields(name), "_"))
	switch name {
	case "":
		return "", ErrRoleRequired
	case reservedRole:
		return "", ErrRoleReserved
	}
	return rolePrefix + name, nil
}

// NormalizeObject 策略资源存储为去掉 /api/v1 的路由模板
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, objectRootDir) {
		path = objectRootDir + path
	}
	if path == apiV1Prefix {
		return objectRootDir
	}
	if rest, ok := strings.CutPrefix(path, apiV1Prefix+"/"); ok {
		return objectRootDir + rest
	}
	return path
}

func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}

func isRoleName(name string) bool {
	return strings.HasPrefix(name, rolePrefix) && name != roleAnchor
}
