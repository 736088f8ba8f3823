package app

import (
	"os"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"

	"go.uber.org/zap"
)

// Mode 进程启动模式
type Mode string

const (
	ModeAll    Mode = "all"
	ModeAPI    Mode = "api"
	ModeWorker Mode = "worker"
)

func (m Mode) Valid() bool {
	return m == ModeAll || m == ModeAPI || m == ModeWorker
}

// ServesAPI 是否启动后台 HTTP 接口
func (m Mode) ServesAPI() bool { return m == ModeAll || m == ModeAPI }

// RunsBackground 是否启动续订、提醒等后台任务
func (m Mode) RunsBackground() bool { return m == ModeAll || m == ModeWorker }

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            Mode
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logger.S()
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 15 * time.Second
	}
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	return o
}
