package service

import (
	"strings"
	"time"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/config"

	"github.com/mojocn/base64Captcha"
)

const captchaSource = "23456789abcdefghjkmnpqrstuvwxyz"

// CaptchaChallenge 图片验证码挑战
type CaptchaChallenge struct {
	Enabled     bool   `json:"enabled"`
	CaptchaID   string `json:"captcha_id,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

// CaptchaService 登录图片验证码，未启用时 Verify 直接放行
type CaptchaService struct {
	cfg     config.CaptchaConfig
	store   base64Captcha.Store
	captcha *base64Captcha.Captcha
}

// NewCaptchaService 创建验证码服务，Redis 可用时答案存入 Redis
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	cfg = normalizeCaptchaConfig(cfg)
	expire := time.Duration(cfg.ExpireSeconds) * time.Second

	var store base64Captcha.Store = base64Captcha.NewMemoryStore(cfg.MaxStore, expire)
	if redisStore := cache.NewCaptchaStore(expire); redisStore != nil {
		store = redisStore
	}
	driver := base64Captcha.NewDriverString(
		cfg.Height,
		cfg.Width,
		cfg.NoiseCount,
		base64Captcha.OptionShowHollowLine,
		cfg.Length,
		captchaSource,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	return &CaptchaService{
		cfg:     cfg,
		store:   store,
		captcha: base64Captcha.NewCaptcha(driver, store),
	}
}

func normalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	if cfg.Length < 4 || cfg.Length > 8 {
		cfg.Length = 5
	}
	if cfg.Width <= 0 {
		cfg.Width = 240
	}
	if cfg.Height <= 0 {
		cfg.Height = 80
	}
	if cfg.NoiseCount < 0 {
		cfg.NoiseCount = 0
	}
	if cfg.ExpireSeconds <= 0 {
		cfg.ExpireSeconds = 300
	}
	if cfg.MaxStore <= 0 {
		cfg.MaxStore = 10240
	}
	return cfg
}

// Enabled 是否要求登录验证码
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// Generate 生成新的图片验证码
func (s *CaptchaService) Generate() (*CaptchaChallenge, error) {
	if !s.Enabled() {
		return &CaptchaChallenge{Enabled: false}, nil
	}
	id, b64s, _, err := s.captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaChallenge{
		Enabled:     true,
		CaptchaID:   id,
		ImageBase64: b64s,
	}, nil
}

// Verify 校验并作废验证码，一个挑战只能使用一次
func (s *CaptchaService) Verify(captchaID, code string) error {
	if !s.Enabled() {
		return nil
	}
	captchaID = strings.TrimSpace(captchaID)
	code = strings.ToLower(strings.TrimSpace(code))
	if captchaID == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.store.Verify(captchaID, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}
