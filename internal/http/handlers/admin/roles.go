package admin

import (
	"net/url"
	"strings"

	"github.com/tiffin-desk/internal/authz"
	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"

	"github.com/gin-gonic/gin"
)

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

type policyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// accessSnapshot 当前登录员工的岗位与生效策略
type accessSnapshot struct {
	AdminID  uint           `json:"admin_id"`
	IsSuper  bool           `json:"is_super"`
	Roles    []string       `json:"roles"`
	Policies []authz.Policy `json:"policies"`
}

// GetAuthzMe 当前员工权限快照，前端据此隐藏无权操作
func (h *Handler) GetAuthzMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	snapshot := accessSnapshot{AdminID: adminID, IsSuper: handlershared.IsSuperAdmin(c)}

	var err error
	if snapshot.Roles, err = h.AuthzService.GetAdminRoles(adminID); err == nil {
		snapshot.Policies, err = h.AuthzService.GetAdminPolicies(adminID)
	}
	if err != nil {
		respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
		return
	}
	response.Success(c, snapshot)
}

// ListAuthzRoles 岗位列表，附带是否预置与成员数
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoleSummaries()
	if err != nil {
		respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 新建岗位，已存在时原样返回
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
		return
	}
	logOperator(c, "role_created", "role", role)
	response.Success(c, roleRequest{Role: role})
}

// DeleteAuthzRole 删除自定义岗位；预置岗位返回 error.role_builtin
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
		return
	}
	logOperator(c, "role_deleted", "role", role)
	response.Success(c, nil)
}

func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
		return
	}
	response.Success(c, policies)
}

func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	h.changePolicy(c, "policy_granted", h.AuthzService.GrantRolePolicy)
}

func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	h.changePolicy(c, "policy_revoked", h.AuthzService.RevokeRolePolicy)
}

func (h *Handler) changePolicy(c *gin.Context, event string, apply func(role, object, action string) error) {
	var req policyRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := apply(req.Role, req.Object, req.Action); err != nil {
		respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
		return
	}
	logOperator(c, event,
		"role", req.Role,
		"object", authz.NormalizeObject(req.Object),
		"action", authz.NormalizeAction(req.Action),
	)
	response.Success(c, nil)
}

// roleParam 路由中的岗位名可能被 URL 编码（role:kitchen）
func roleParam(c *gin.Context) (string, bool) {
	raw := c.Param("role")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	role := strings.TrimSpace(raw)
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
		return "", false
	}
	return role, true
}
