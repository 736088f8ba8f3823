package worker

import (
	"context"
	"errors"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/queue"

	"github.com/hibiken/asynq"
)

// Service asynq 消费端，同进程内运行周期任务调度器
type Service struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
}

func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	scheduler, err := queue.NewScheduler(&cfg.Queue, &cfg.Tiffin)
	if err != nil {
		return nil, err
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	serverCfg.Logger = logger.S()
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server:    asynq.NewServer(opt, serverCfg),
		mux:       mux,
		scheduler: scheduler,
	}, nil
}

func (s *Service) Name() string { return "worker" }

// Start 启动调度器与消费者后阻塞到 ctx 结束；信号由 app 统一处理，不用 asynq 自带的 Run
func (s *Service) Start(ctx context.Context) error {
	if err := s.scheduler.Start(); err != nil {
		return err
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	logger.Infow("worker_started")
	<-ctx.Done()
	return nil
}

func (s *Service) Stop(context.Context) error {
	s.scheduler.Shutdown()
	s.server.Shutdown()
	return nil
}
