package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/provider"
	"github.com/tiffin-desk/internal/queue"
	"github.com/tiffin-desk/internal/service"

	"github.com/hibiken/asynq"
)

const scheduleDateLayout = "2006-01-02"

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	now func() time.Time
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
		now:       time.Now,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCustomerNotify, c.handleCustomerNotify)
	mux.HandleFunc(queue.TaskTiffinRenewalReminder, c.handleTiffinRenewalReminder)
	mux.HandleFunc(queue.TaskTiffinDeliverySchedule, c.handleTiffinDeliverySchedule)
}

func (c *Consumer) handleCustomerNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil || c.NotificationService == nil {
		logger.Debugw("worker_customer_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodePayload[queue.CustomerNotifyPayload](task)
	if err != nil {
		logger.Warnw("worker_customer_notify_decode_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.SourceID == 0 || strings.TrimSpace(payload.Event) == "" {
		logger.Debugw("worker_customer_notify_skip_invalid_payload",
			"event", payload.Event,
			"source_id", payload.SourceID,
		)
		return nil
	}
	err = c.NotificationService.Send(ctx, payload)
	switch {
	case err == nil:
		return nil
	case isPermanentNotifyError(err):
		logger.Infow("worker_customer_notify_skipped",
			"event", payload.Event,
			"source_type", payload.SourceType,
			"source_id", payload.SourceID,
			"reason", err.Error(),
		)
		return nil
	default:
		logger.Warnw("worker_customer_notify_failed",
			"event", payload.Event,
			"source_type", payload.SourceType,
			"source_id", payload.SourceID,
			"error", err,
		)
		return err
	}
}

func (c *Consumer) handleTiffinRenewalReminder(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil || c.TiffinService == nil {
		logger.Debugw("worker_tiffin_reminder_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodePayload[queue.TiffinRenewalReminderPayload](task)
	if err != nil {
		logger.Warnw("worker_tiffin_reminder_decode_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	sent, err := c.TiffinService.SendRenewalReminders(ctx, payload.LeadDays)
	if err != nil {
		logger.Warnw("worker_tiffin_reminder_failed", "lead_days", payload.LeadDays, "sent", sent, "error", err)
		return err
	}
	logger.Infow("worker_tiffin_reminder_done", "lead_days", payload.LeadDays, "sent", sent)
	return nil
}

func (c *Consumer) handleTiffinDeliverySchedule(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil || c.DeliveryService == nil {
		logger.Debugw("worker_delivery_schedule_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.DecodePayload[queue.TiffinDeliverySchedulePayload](task)
	if err != nil {
		logger.Warnw("worker_delivery_schedule_decode_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	day, err := resolveScheduleDate(payload.Date, c.currentTime())
	if err != nil {
		logger.Warnw("worker_delivery_schedule_invalid_date", "date", payload.Date, "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	created, err := c.DeliveryService.ScheduleTiffinDeliveries(ctx, day)
	if err != nil {
		logger.Warnw("worker_delivery_schedule_failed", "date", day.Format(scheduleDateLayout), "error", err)
		return err
	}
	logger.Infow("worker_delivery_schedule_done", "date", day.Format(scheduleDateLayout), "created", created)
	return nil
}

func (c *Consumer) currentTime() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// resolveScheduleDate 解析排单日期，为空时取次日
func resolveScheduleDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := now.AddDate(0, 0, 1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.ParseInLocation(scheduleDateLayout, raw, time.UTC)
}

// isPermanentNotifyError 重试也无法成功的通知错误
func isPermanentNotifyError(err error) bool {
	return errors.Is(err, service.ErrNotifierDisabled) ||
		errors.Is(err, service.ErrNotifyNoReceiver) ||
		errors.Is(err, service.ErrOrderNotFound) ||
		errors.Is(err, service.ErrTiffinNotFound)
}
