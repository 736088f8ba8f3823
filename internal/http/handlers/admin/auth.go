package admin

import (
	"errors"
	"time"

	handlershared "github.com/tiffin-desk/internal/http/handlers/shared"
	"github.com/tiffin-desk/internal/http/response"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 验证码未启用时 captcha_* 可省略
type LoginRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// LoginResponse ExpiresAt 为 RFC3339
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      loginAccount `json:"user"`
}

type loginAccount struct {
	ID          uint     `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	IsSuper     bool     `json:"is_super"`
	Roles       []string `json:"roles"`
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, token, expiresAt, err := h.login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			handlershared.Log(c).Warnw("admin_login_failed", "username", req.Username, "client_ip", c.ClientIP())
		}
		respondMapped(c, err, handlershared.LoginErrorRules, "error.internal")
		return
	}

	// 岗位只用于前端展示菜单，读取失败不影响登录
	roles, err := h.AuthzService.GetAdminRoles(admin.ID)
	if err != nil {
		handlershared.Log(c).Warnw("admin_login_roles_fetch_failed", "admin_id", admin.ID, "error", err)
	}
	response.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User: loginAccount{
			ID:          admin.ID,
			Username:    admin.Username,
			DisplayName: admin.DisplayName,
			IsSuper:     admin.IsSuper,
			Roles:       roles,
		},
	})
}

func (h *Handler) login(req LoginRequest) (*models.Admin, string, time.Time, error) {
	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
		return nil, "", time.Time{}, err
	}
	return h.AuthService.Login(req.Username, req.Password)
}

// GetLoginCaptcha 未启用验证码时返回 enabled=false
func (h *Handler) GetLoginCaptcha(c *gin.Context) {
	challenge, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, challenge)
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateAdminPassword 本人改密，成功后需重新登录
func (h *Handler) UpdateAdminPassword(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}
	var req UpdatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.AuthService.ChangePassword(id, req.OldPassword, req.NewPassword); err != nil {
		if !respondPasswordPolicyError(c, err) {
			respondMapped(c, err, handlershared.PasswordChangeErrorRules, "error.admin_update_failed")
		}
		return
	}
	logOperator(c, "password_changed")
	response.Success(c, nil)
}
