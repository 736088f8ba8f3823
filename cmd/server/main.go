package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/tiffin-desk/internal/app"
	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"

	"github.com/gin-gonic/gin"
)

const releaseMode = "release"

func main() {
	mode := flag.String("mode", string(app.ModeAll), "启动模式: all (默认), api, worker")
	flag.Parse()

	fmt.Printf("Tiffin Desk 餐饮接单后台 · mode=%s\n", *mode)
	if err := run(app.Mode(*mode)); err != nil {
		logger.StdLogger().Fatalf("服务退出: %v", err)
	}
}

func run(mode app.Mode) error {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	release := cfg.Server.Mode == releaseMode
	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	if weakSecret(cfg.JWT.SecretKey) {
		if release {
			return errors.New("jwt secret 过弱或仍为默认值，生产环境必须配置强随机密钥")
		}
		logger.Warnw("jwt_secret_weak")
	}

	if err := models.InitDB(cfg.Database.ToDBOptions()); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	seedDefaults(cfg, release)

	return app.Run(app.Options{
		Config:  cfg,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	})
}

// seedDefaults 首次启动写入默认管理员与订单设置；失败只告警
func seedDefaults(cfg *config.Config, release bool) {
	username := os.Getenv("TD_DEFAULT_ADMIN_USERNAME")
	password := os.Getenv("TD_DEFAULT_ADMIN_PASSWORD")
	if release && password == "" {
		logger.Warnw("default_admin_skipped", "reason", "TD_DEFAULT_ADMIN_PASSWORD not set")
	} else if err := models.SeedOwnerAccount(username, password); err != nil {
		logger.Warnw("default_admin_init_failed", "error", err)
	}
	if err := models.SeedOrderSettings(cfg.Order.TaxRate, cfg.Order.Currency); err != nil {
		logger.Warnw("default_settings_init_failed", "error", err)
	}
}

func weakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	lower := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
