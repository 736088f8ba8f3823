package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Order    OrderConfig    `mapstructure:"order"`
	Tiffin   TiffinConfig   `mapstructure:"tiffin"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Invoice  InvoiceConfig  `mapstructure:"invoice"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host                     string `mapstructure:"host"`
	Port                     string `mapstructure:"port"`
	Mode                     string `mapstructure:"mode"` // debug / release
	ReadHeaderTimeoutSeconds int    `mapstructure:"read_header_timeout_seconds"`
	IdleTimeoutSeconds       int    `mapstructure:"idle_timeout_seconds"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		Level:      c.Level,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string             `mapstructure:"driver"`            // 数据库驱动（sqlite/postgres）
	DSN             string             `mapstructure:"dsn"`               // 数据库连接串
	SlowThresholdMS int                `mapstructure:"slow_threshold_ms"` // 慢查询阈值
	LogQueries      bool               `mapstructure:"log_queries"`       // 是否输出全部 SQL
	Pool            DatabasePoolConfig `mapstructure:"pool"`
}

// ToDBOptions 转换为 models 连接参数
func (d DatabaseConfig) ToDBOptions() models.DBOptions {
	return models.DBOptions{
		Driver:          d.Driver,
		DSN:             d.DSN,
		SlowThresholdMS: d.SlowThresholdMS,
		LogQueries:      d.LogQueries,
		Pool:            models.DBPoolConfig(d.Pool),
	}
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Addr host:port，缺省 127.0.0.1:6379
func (r RedisConfig) Addr() string { return redisAddr(r.Host, r.Port) }

func redisAddr(host string, port int) string {
	host = strings.TrimSpace(host)
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// Addr 队列所用 Redis 地址，可与缓存 Redis 分开部署
func (q QueueConfig) Addr() string { return redisAddr(q.Host, q.Port) }

// OrderConfig 订单与草稿配置
type OrderConfig struct {
	TaxRate             float64 `mapstructure:"tax_rate"`              // 全局税率（百分比），可被后台设置覆盖
	Currency            string  `mapstructure:"currency"`              // 币种
	DraftTTLMinutes     int     `mapstructure:"draft_ttl_minutes"`     // 草稿保留时长
	ListingCacheSeconds int     `mapstructure:"listing_cache_seconds"` // 订单列表缓存时长
}

// TiffinConfig 包月订阅配置
type TiffinConfig struct {
	RenewalLeadDays   int    `mapstructure:"renewal_lead_days"`   // 到期前多少天提醒续订
	ReminderCron      string `mapstructure:"reminder_cron"`       // 续订提醒扫描周期
	ScheduleCron      string `mapstructure:"schedule_cron"`       // 次日配送单生成周期
	DefaultPeriodDays int    `mapstructure:"default_period_days"` // 续订默认周期天数
}

// NotifyConfig 客户消息网关配置
type NotifyConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	GatewayURL     string `mapstructure:"gateway_url"`
	Token          string `mapstructure:"token"`
	Sender         string `mapstructure:"sender"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Locale         string `mapstructure:"locale"`
}

// InvoiceConfig 发票抬头配置
type InvoiceConfig struct {
	BusinessName    string `mapstructure:"business_name"`
	BusinessAddress string `mapstructure:"business_address"`
	BusinessPhone   string `mapstructure:"business_phone"`
	TaxID           string `mapstructure:"tax_id"`
	Footer          string `mapstructure:"footer"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit    LoginRateLimitConfig `mapstructure:"login_rate_limit"`
	TrackingRateLimit LoginRateLimitConfig `mapstructure:"tracking_rate_limit"`
	PasswordPolicy    PasswordPolicyConfig `mapstructure:"password_policy"`
	LoginCaptcha      CaptchaConfig        `mapstructure:"login_captcha"`
}

// CaptchaConfig 登录图片验证码配置
type CaptchaConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Length        int  `mapstructure:"length"`
	Width         int  `mapstructure:"width"`
	Height        int  `mapstructure:"height"`
	NoiseCount    int  `mapstructure:"noise_count"`
	ExpireSeconds int  `mapstructure:"expire_seconds"`
	MaxStore      int  `mapstructure:"max_store"`
}

// LoginRateLimitConfig 限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// PasswordPolicyConfig 密码策略配置
type PasswordPolicyConfig struct {
	MinLength      int  `mapstructure:"min_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// Load 加载 .env 与 config.yml
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded", "file", ".env")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持，例如 order.tax_rate -> ORDER_TAX_RATE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_header_timeout_seconds", 10)
	v.SetDefault("server.idle_timeout_seconds", 60)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.level", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/tiffin.db")
	v.SetDefault("database.slow_threshold_ms", 500)
	v.SetDefault("database.log_queries", false)
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expire_hours", 12)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "td")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("security.tracking_rate_limit.window_seconds", 60)
	v.SetDefault("security.tracking_rate_limit.max_attempts", 30)
	v.SetDefault("security.tracking_rate_limit.block_seconds", 60)
	v.SetDefault("security.password_policy.min_length", 8)
	v.SetDefault("security.password_policy.require_upper", true)
	v.SetDefault("security.password_policy.require_lower", true)
	v.SetDefault("security.password_policy.require_number", true)
	v.SetDefault("security.password_policy.require_special", false)
	v.SetDefault("security.login_captcha.enabled", false)
	v.SetDefault("security.login_captcha.length", 5)
	v.SetDefault("security.login_captcha.width", 240)
	v.SetDefault("security.login_captcha.height", 80)
	v.SetDefault("security.login_captcha.noise_count", 2)
	v.SetDefault("security.login_captcha.expire_seconds", 300)
	v.SetDefault("security.login_captcha.max_store", 10240)
	v.SetDefault("order.tax_rate", 0)
	v.SetDefault("order.currency", "USD")
	v.SetDefault("order.draft_ttl_minutes", 240)
	v.SetDefault("order.listing_cache_seconds", 60)
	v.SetDefault("tiffin.renewal_lead_days", 3)
	v.SetDefault("tiffin.reminder_cron", "@every 6h")
	v.SetDefault("tiffin.schedule_cron", "0 18 * * *")
	v.SetDefault("tiffin.default_period_days", 30)
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.gateway_url", "")
	v.SetDefault("notify.token", "")
	v.SetDefault("notify.sender", "")
	v.SetDefault("notify.timeout_seconds", 10)
	v.SetDefault("notify.locale", "en-US")
	v.SetDefault("invoice.business_name", "Tiffin Desk Kitchen")
	v.SetDefault("invoice.business_address", "")
	v.SetDefault("invoice.business_phone", "")
	v.SetDefault("invoice.tax_id", "")
	v.SetDefault("invoice.footer", "Thank you for your order!")
}
