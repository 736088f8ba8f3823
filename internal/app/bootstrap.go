package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/provider"
	"github.com/tiffin-desk/internal/router"
	"github.com/tiffin-desk/internal/worker"
)

// BuildRunner 按启动模式装配服务
func BuildRunner(cfg *config.Config, mode Mode) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown mode: %q", mode)
	}

	container := provider.NewContainer(cfg)
	var services []Service
	if mode.ServesAPI() {
		services = append(services, newAPIServer(cfg.Server, router.SetupRouter(cfg, container)))
	}
	if mode.RunsBackground() {
		background, err := backgroundService(cfg, container, mode)
		if err != nil {
			return nil, err
		}
		services = append(services, background)
	}
	return NewRunner(services...), nil
}

// backgroundService 开启队列时用 asynq worker；未开启时仅 all 模式退回进程内 cron
func backgroundService(cfg *config.Config, container *provider.Container, mode Mode) (Service, error) {
	if cfg.Queue.Enabled {
		return worker.NewService(cfg, worker.NewConsumer(container))
	}
	if mode == ModeWorker {
		return nil, errors.New("worker mode requires queue.enabled")
	}
	logger.Warnw("app_queue_disabled_use_local_scheduler")
	return worker.NewLocalScheduler(&cfg.Tiffin, container)
}

// Run 进程入口：装配服务并阻塞到收到退出信号
func Run(opts Options) error {
	opts = opts.withDefaults()
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, opts.Signals...)
		defer stop()
	}
	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"mode", opts.Mode,
		"services", runner.Services(),
	)
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}
