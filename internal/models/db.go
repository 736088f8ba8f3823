package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB 进程内共享连接，InitDB 之后可用
var DB *gorm.DB

const defaultSlowQuery = 500 * time.Millisecond

// DBPoolConfig 连接池；0 表示沿用 database/sql 默认值
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

type DBOptions struct {
	Driver          string // sqlite（默认，纯 Go 驱动）或 postgres
	DSN             string
	SlowThresholdMS int
	LogQueries      bool
	Pool            DBPoolConfig
}

// InitDB 打开连接并赋给 DB
func InitDB(options DBOptions) error {
	db, err := Open(options)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open 按驱动打开连接，SQL 日志走 zap
func Open(options DBOptions) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver := strings.ToLower(strings.TrimSpace(options.Driver)); driver {
	case "", "sqlite":
		dialector = sqlite.Open(options.DSN)
	case "postgres", "postgresql":
		dialector = postgres.Open(options.DSN)
	default:
		return nil, fmt.Errorf("models: unsupported database driver %q", options.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: sqlLogger(options)})
	if err != nil {
		return nil, fmt.Errorf("models: open %s: %w", dialector.Name(), err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pool := options.Pool
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(seconds(pool.ConnMaxLifetimeSeconds))
	sqlDB.SetConnMaxIdleTime(seconds(pool.ConnMaxIdleTimeSeconds))
	return db, nil
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// sqlLogger 默认只记慢查询与错误，LogQueries 打开后记录全部 SQL
func sqlLogger(options DBOptions) gormlogger.Interface {
	level := gormlogger.Warn
	if options.LogQueries {
		level = gormlogger.Info
	}
	slow := time.Duration(options.SlowThresholdMS) * time.Millisecond
	if slow <= 0 {
		slow = defaultSlowQuery
	}
	return gormlogger.New(logger.StdLogger(), gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// AllModels 参与自动迁移的表
func AllModels() []interface{} {
	return []interface{}{
		&Admin{},
		&Setting{},
		&Store{},
		&Staff{},
		&MenuItem{},
		&Customer{},
		&CateringOrder{},
		&OrderEvent{},
		&TiffinOrder{},
		&DeliveryZone{},
		&Driver{},
		&Delivery{},
		&Expense{},
	}
}

func AutoMigrate() error {
	return DB.AutoMigrate(AllModels()...)
}
