package service

import (
	"context"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService 员工登录账号：登录、令牌校验、开通、停用与改密
type AuthService struct {
	policy config.PasswordPolicyConfig
	tokens tokenIssuer
	admins repository.AdminRepository
}

func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{
		policy: cfg.Security.PasswordPolicy,
		tokens: newTokenIssuer(cfg.JWT),
		admins: adminRepo,
	}
}

// ParseJWT 仅校验签名与有效期，不检查账号状态
func (s *AuthService) ParseJWT(raw string) (*JWTClaims, error) {
	return s.tokens.parse(raw)
}

// Authenticate 校验 Bearer 令牌并返回账号鉴权快照
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*JWTClaims, *cache.AdminAuthState, error) {
	if !s.tokens.ready() {
		return nil, nil, ErrSigningKeyMissing
	}
	claims, err := s.tokens.parse(raw)
	if err != nil {
		return nil, nil, err
	}
	state, err := s.ResolveAuthState(ctx, claims.AdminID)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}
	if !state.IsActive {
		return nil, nil, ErrAdminDisabled
	}
	if !state.AcceptsToken(claims.TokenVersion, issuedAt(claims)) {
		return nil, nil, ErrTokenRevoked
	}
	return claims, state, nil
}

// ResolveAuthState 先读缓存快照，未命中回源数据库并回填
func (s *AuthService) ResolveAuthState(ctx context.Context, adminID uint) (*cache.AdminAuthState, error) {
	state, hit, err := cache.GetAdminAuthState(ctx, adminID)
	if err != nil {
		logger.Warnw("admin_auth_state_cache_get_failed", "admin_id", adminID, "error", err)
	}
	if hit {
		return state, nil
	}
	admin, err := s.find(adminID)
	if err != nil {
		return nil, err
	}
	return s.cacheState(ctx, admin), nil
}

// Login 用户名忽略首尾空格；停用账号即使密码正确也拒绝
func (s *AuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil || !passwordMatches(admin.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, "", time.Time{}, ErrAdminDisabled
	}

	now := time.Now()
	token, expiresAt, err := s.tokens.issue(admin, now)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	admin.LastLoginAt = &now
	if err := s.save(admin); err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, expiresAt, nil
}

// ChangePassword 本人改密，需旧密码；成功后其他会话全部下线
func (s *AuthService) ChangePassword(adminID uint, oldPassword, newPassword string) error {
	admin, err := s.find(adminID)
	if err != nil {
		return err
	}
	if !passwordMatches(admin.PasswordHash, oldPassword) {
		return ErrInvalidPassword
	}
	return s.setPassword(admin, newPassword)
}

// ResetAdminPassword 管理员重置他人密码
func (s *AuthService) ResetAdminPassword(adminID uint, newPassword string) error {
	admin, err := s.find(adminID)
	if err != nil {
		return err
	}
	return s.setPassword(admin, newPassword)
}

type CreateAdminInput struct {
	Username    string
	DisplayName string
	Password    string
	StaffID     *uint
	IsSuper     bool
}

// CreateAdmin 用户名不区分大小写唯一
func (s *AuthService) CreateAdmin(input CreateAdminInput) (*models.Admin, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrInvalidCredentials
	}
	switch existing, err := s.admins.GetByUsername(username); {
	case err != nil:
		return nil, err
	case existing != nil:
		return nil, ErrAdminExists
	}
	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Username:     username,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		StaffID:      input.StaffID,
		PasswordHash: hash,
		IsSuper:      input.IsSuper,
		IsActive:     true,
	}
	if err := s.admins.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// SetAdminActive 停用时吊销已签发令牌；不能停用自己
func (s *AuthService) SetAdminActive(operatorID, adminID uint, active bool) (*models.Admin, error) {
	if operatorID == adminID && !active {
		return nil, ErrCannotDisableSelf
	}
	admin, err := s.find(adminID)
	if err != nil {
		return nil, err
	}
	admin.IsActive = active
	if !active {
		revokeTokens(admin, time.Now())
	}
	if err := s.save(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AuthService) setPassword(admin *models.Admin, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	revokeTokens(admin, time.Now())
	return s.save(admin)
}

// hashPassword 先按密码策略校验，再 bcrypt
func (s *AuthService) hashPassword(password string) (string, error) {
	if err := validatePassword(s.policy, password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) find(adminID uint) (*models.Admin, error) {
	admin, err := s.admins.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	return admin, nil
}

// save 落库后刷新鉴权快照，停用与改密对在途请求立即生效
func (s *AuthService) save(admin *models.Admin) error {
	if err := s.admins.Update(admin); err != nil {
		return err
	}
	s.cacheState(context.Background(), admin)
	return nil
}

func (s *AuthService) cacheState(ctx context.Context, admin *models.Admin) *cache.AdminAuthState {
	state := cache.BuildAdminAuthState(admin)
	if err := cache.SetAdminAuthState(ctx, state); err != nil {
		logger.Warnw("admin_auth_state_cache_set_failed", "admin_id", admin.ID, "error", err)
	}
	return state
}

func revokeTokens(admin *models.Admin, at time.Time) {
	admin.TokenVersion++
	admin.TokenInvalidBefore = &at
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
