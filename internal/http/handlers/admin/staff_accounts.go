package admin

import (
	"strings"
	"time"

	"github.com/tiffin-desk/internal/cache"
	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type createAccountRequest struct {
	Username    string   `json:"username" binding:"required"`
	DisplayName string   `json:"display_name"`
	Password    string   `json:"password" binding:"required"`
	StaffID     *uint    `json:"staff_id"`
	IsSuper     bool     `json:"is_super"`
	Roles       []string `json:"roles"`
}

type accountRolesRequest struct {
	Roles []string `json:"roles"`
}

type accountActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type accountPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// staffAccountView 登录账号及其岗位
type staffAccountView struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	StaffID     *uint      `json:"staff_id,omitempty"`
	IsSuper     bool       `json:"is_super"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	Roles       []string   `json:"roles"`
}

func (h *Handler) accountView(admin *models.Admin) (staffAccountView, error) {
	roles, err := h.AuthzService.GetAdminRoles(admin.ID)
	if err != nil {
		return staffAccountView{}, err
	}
	return staffAccountView{
		ID:          admin.ID,
		Username:    admin.Username,
		DisplayName: admin.DisplayName,
		StaffID:     admin.StaffID,
		IsSuper:     admin.IsSuper,
		IsActive:    admin.IsActive,
		LastLoginAt: admin.LastLoginAt,
		CreatedAt:   admin.CreatedAt,
		Roles:       roles,
	}, nil
}

// ListAuthzAdmins 员工登录账号列表
func (h *Handler) ListAuthzAdmins(c *gin.Context) {
	admins, err := h.AdminRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_fetch_failed", err)
		return
	}
	views := make([]staffAccountView, 0, len(admins))
	for i := range admins {
		view, err := h.accountView(&admins[i])
		if err != nil {
			respondError(c, response.CodeInternal, "error.admin_fetch_failed", err)
			return
		}
		views = append(views, view)
	}
	response.Success(c, views)
}

// CreateAuthzAdmin 开通账号；只有超级管理员能开通超级管理员
func (h *Handler) CreateAuthzAdmin(c *gin.Context) {
	var req createAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.AuthService.CreateAdmin(service.CreateAdminInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		StaffID:     req.StaffID,
		IsSuper:     req.IsSuper && handlershared.IsSuperAdmin(c),
	})
	if err != nil {
		if !respondPasswordPolicyError(c, err) {
			respondMapped(c, err, handlershared.AccountErrorRules, "error.admin_update_failed")
		}
		return
	}
	if len(req.Roles) > 0 {
		if err := h.AuthzService.SetAdminRoles(admin.ID, req.Roles); err != nil {
			respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
			return
		}
	}
	if err := cache.SetAdminAuthState(c.Request.Context(), cache.BuildAdminAuthState(admin)); err != nil {
		handlershared.Log(c).Warnw("admin_auth_state_cache_set_failed", "admin_id", admin.ID, "error", err)
	}

	view, err := h.accountView(admin)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_fetch_failed", err)
		return
	}
	logOperator(c, "staff_account_created",
		"target_admin_id", admin.ID,
		"target_username", admin.Username,
		"roles", view.Roles,
	)
	response.Success(c, view)
}

// SetAuthzAdminRoles 覆盖账号岗位
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	admin, ok := h.loadAccount(c)
	if !ok {
		return
	}
	var req accountRolesRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.AuthzService.SetAdminRoles(admin.ID, req.Roles); err != nil {
		respondMapped(c, err, handlershared.RoleErrorRules, "error.authz_failed")
		return
	}
	logOperator(c, "staff_account_roles_set", "target_admin_id", admin.ID, "roles", req.Roles)
	response.Success(c, nil)
}

// SetAuthzAdminActive 停用后已签发的令牌立即失效；不能停用自己
func (h *Handler) SetAuthzAdminActive(c *gin.Context) {
	targetID, ok := parsePathID(c)
	if !ok {
		return
	}
	var req accountActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.AuthService.SetAdminActive(currentAdminID(c), targetID, *req.Active)
	if err != nil {
		respondMapped(c, err, handlershared.AccountErrorRules, "error.admin_update_failed")
		return
	}
	logOperator(c, "staff_account_active_set", "target_admin_id", targetID, "active", admin.IsActive)
	response.Success(c, admin)
}

func (h *Handler) ResetAuthzAdminPassword(c *gin.Context) {
	targetID, ok := parsePathID(c)
	if !ok {
		return
	}
	var req accountPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.AuthService.ResetAdminPassword(targetID, strings.TrimSpace(req.Password)); err != nil {
		if !respondPasswordPolicyError(c, err) {
			respondMapped(c, err, handlershared.AccountErrorRules, "error.admin_update_failed")
		}
		return
	}
	logOperator(c, "staff_account_password_reset", "target_admin_id", targetID)
	response.Success(c, nil)
}

func (h *Handler) loadAccount(c *gin.Context) (*models.Admin, bool) {
	id, ok := parsePathID(c)
	if !ok {
		return nil, false
	}
	admin, err := h.AdminRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.admin_fetch_failed", err)
		return nil, false
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "error.admin_not_found", nil)
		return nil, false
	}
	return admin, true
}
