package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/tiffin-desk/internal/models"
)

const (
	authStateKeyPrefix = "auth:admin:"
	authStateCacheTTL  = 10 * time.Minute
)

// AdminAuthState 员工账号鉴权快照，鉴权中间件每次请求读取
// TokenInvalidBefore 为 Unix 秒，0 表示从未强制下线
type AdminAuthState struct {
	AdminID            uint   `json:"admin_id"`
	Username           string `json:"username"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	IsSuper            bool   `json:"is_super"`
	IsActive           bool   `json:"is_active"`
	UpdatedAt          int64  `json:"updated_at"`
}

// AcceptsToken 令牌版本一致且签发时间不早于强制下线时间
func (s *AdminAuthState) AcceptsToken(tokenVersion uint64, issuedAt time.Time) bool {
	if s == nil || s.TokenVersion != tokenVersion {
		return false
	}
	if s.TokenInvalidBefore <= 0 {
		return true
	}
	return !issuedAt.IsZero() && issuedAt.Unix() >= s.TokenInvalidBefore
}

func authStateKey(adminID uint) string {
	return authStateKeyPrefix + strconv.FormatUint(uint64(adminID), 10)
}

// BuildAdminAuthState 由账号构建快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	var invalidBefore int64
	if admin.TokenInvalidBefore != nil {
		invalidBefore = admin.TokenInvalidBefore.Unix()
	}
	return &AdminAuthState{
		AdminID:            admin.ID,
		Username:           admin.Username,
		TokenVersion:       admin.TokenVersion,
		TokenInvalidBefore: invalidBefore,
		IsSuper:            admin.IsSuper,
		IsActive:           admin.IsActive,
		UpdatedAt:          time.Now().Unix(),
	}
}

// GetAdminAuthState 读取快照，Redis 未启用时恒为未命中
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	if adminID == 0 {
		return nil, false, nil
	}
	state := &AdminAuthState{}
	hit, err := GetJSON(ctx, authStateKey(adminID), state)
	if err != nil || !hit {
		return nil, false, err
	}
	return state, true, nil
}

// SetAdminAuthState 写入快照；停用、改密、改角色后调用以立即生效
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil || state.AdminID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.AdminID), state, authStateCacheTTL)
}

// DelAdminAuthState 删除快照
func DelAdminAuthState(ctx context.Context, adminID uint) error {
	if adminID == 0 {
		return nil
	}
	return Del(ctx, authStateKey(adminID))
}
