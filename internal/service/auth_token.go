package service

import (
	"strings"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 12 * time.Hour

// JWTClaims 后台令牌声明；TokenVersion 与账号不一致即视为已吊销
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// tokenIssuer HS256 签发与校验
type tokenIssuer struct {
	key []byte
	ttl time.Duration
}

func newTokenIssuer(cfg config.JWTConfig) tokenIssuer {
	ttl := time.Duration(cfg.ExpireHours) * time.Hour
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return tokenIssuer{key: []byte(strings.TrimSpace(cfg.SecretKey)), ttl: ttl}
}

func (t tokenIssuer) ready() bool {
	return len(t.key) > 0
}

func (t tokenIssuer) issue(admin *models.Admin, now time.Time) (string, time.Time, error) {
	if !t.ready() {
		return "", time.Time{}, ErrSigningKeyMissing
	}
	expiresAt := now.Add(t.ttl)
	claims := JWTClaims{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (t tokenIssuer) parse(raw string) (*JWTClaims, error) {
	if !t.ready() {
		return nil, ErrSigningKeyMissing
	}
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || claims.AdminID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func issuedAt(claims *JWTClaims) time.Time {
	if claims == nil || claims.IssuedAt == nil {
		return time.Time{}
	}
	return claims.IssuedAt.Time
}
