package queue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 周期任务所在队列，客户通知走 critical
const DefaultQueue = constants.QueueDefault

// Client 投递任务；队列关闭时所有投递都是空操作
type Client struct {
	client *asynq.Client
}

func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueCustomerNotify 投递客户通知，失败重试 3 次；同一通知已在队列中时忽略
func (c *Client) EnqueueCustomerNotify(payload CustomerNotifyPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCustomerNotifyTask(payload)
	if err != nil {
		return err
	}
	defaults := []asynq.Option{
		asynq.Queue(constants.QueueCritical),
		asynq.MaxRetry(3),
		asynq.TaskID(payload.dedupID()),
	}
	_, err = c.client.Enqueue(task, append(defaults, opts...)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := redisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, constants.QueueCritical: 2}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

// PeriodicTask 周期任务定义
type PeriodicTask struct {
	Cronspec string
	Task     *asynq.Task
}

// BuildPeriodicTasks 根据包月配置生成周期任务，cron 为空的任务跳过
func BuildPeriodicTasks(cfg *config.TiffinConfig) ([]PeriodicTask, error) {
	if cfg == nil {
		return nil, nil
	}
	var tasks []PeriodicTask
	if spec := strings.TrimSpace(cfg.ReminderCron); spec != "" {
		task, err := NewTiffinRenewalReminderTask(TiffinRenewalReminderPayload{LeadDays: cfg.RenewalLeadDays})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, PeriodicTask{Cronspec: spec, Task: task})
	}
	if spec := strings.TrimSpace(cfg.ScheduleCron); spec != "" {
		task, err := NewTiffinDeliveryScheduleTask(TiffinDeliverySchedulePayload{})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, PeriodicTask{Cronspec: spec, Task: task})
	}
	return tasks, nil
}

// NewScheduler 创建周期任务调度器并注册任务
func NewScheduler(queueCfg *config.QueueConfig, tiffinCfg *config.TiffinConfig) (*asynq.Scheduler, error) {
	tasks, err := BuildPeriodicTasks(tiffinCfg)
	if err != nil {
		return nil, err
	}
	scheduler := asynq.NewScheduler(redisOpt(queueCfg), nil)
	for _, item := range tasks {
		if _, err := scheduler.Register(item.Cronspec, item.Task, asynq.Queue(DefaultQueue)); err != nil {
			return nil, fmt.Errorf("register periodic task %s: %w", item.Task.Type(), err)
		}
	}
	return scheduler, nil
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	if cfg == nil {
		cfg = &config.QueueConfig{}
	}
	return asynq.RedisClientOpt{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB}
}
