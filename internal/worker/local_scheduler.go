package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/provider"

	"github.com/robfig/cron/v3"
)

// LocalScheduler 队列关闭时在进程内执行包月周期任务
type LocalScheduler struct {
	cron      *cron.Cron
	container *provider.Container
	leadDays  int
	now       func() time.Time
}

// NewLocalScheduler 按包月配置注册续订提醒与次日排单
func NewLocalScheduler(cfg *config.TiffinConfig, c *provider.Container) (*LocalScheduler, error) {
	if cfg == nil || c == nil {
		return nil, errors.New("local scheduler requires config and container")
	}
	s := &LocalScheduler{
		cron:      cron.New(),
		container: c,
		leadDays:  cfg.RenewalLeadDays,
		now:       time.Now,
	}
	if spec := strings.TrimSpace(cfg.ReminderCron); spec != "" {
		if _, err := s.cron.AddFunc(spec, s.runRenewalReminders); err != nil {
			return nil, err
		}
	}
	if spec := strings.TrimSpace(cfg.ScheduleCron); spec != "" {
		if _, err := s.cron.AddFunc(spec, s.runDeliverySchedule); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name 服务名称
func (s *LocalScheduler) Name() string {
	return "local-scheduler"
}

// Start 启动调度并阻塞到 ctx 结束
func (s *LocalScheduler) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("local scheduler not initialized")
	}
	logger.Infow("local_scheduler_started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
	<-ctx.Done()
	return nil
}

// Stop 停止调度并等待运行中的任务结束
func (s *LocalScheduler) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *LocalScheduler) runRenewalReminders() {
	if s.container.TiffinService == nil {
		return
	}
	sent, err := s.container.TiffinService.SendRenewalReminders(context.Background(), s.leadDays)
	if err != nil {
		logger.Warnw("local_scheduler_renewal_reminder_failed", "sent", sent, "error", err)
		return
	}
	logger.Infow("local_scheduler_renewal_reminder_done", "sent", sent)
}

func (s *LocalScheduler) runDeliverySchedule() {
	if s.container.DeliveryService == nil {
		return
	}
	day, _ := resolveScheduleDate("", s.now())
	created, err := s.container.DeliveryService.ScheduleTiffinDeliveries(context.Background(), day)
	if err != nil {
		logger.Warnw("local_scheduler_delivery_schedule_failed", "date", day.Format(scheduleDateLayout), "error", err)
		return
	}
	logger.Infow("local_scheduler_delivery_schedule_done", "date", day.Format(scheduleDateLayout), "created", created)
}
