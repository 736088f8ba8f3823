package queue

import (
	"encoding/json"
	"fmt"

	"github.com/tiffin-desk/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	TaskCustomerNotify         = constants.TaskCustomerNotify
	TaskTiffinRenewalReminder  = constants.TaskTiffinRenewalReminder
	TaskTiffinDeliverySchedule = constants.TaskTiffinDeliverySchedule
)

// CustomerNotifyPayload 客户通知；worker 按来源重新读取订单再发送
type CustomerNotifyPayload struct {
	Event      string `json:"event"`
	SourceType string `json:"source_type"` // catering / tiffin
	SourceID   uint   `json:"source_id"`
	Status     string `json:"status,omitempty"`
}

// dedupID 同一订单同一事件在队列中只保留一条
func (p CustomerNotifyPayload) dedupID() string {
	return fmt.Sprintf("notify:%s:%d:%s:%s", p.SourceType, p.SourceID, p.Event, p.Status)
}

// TiffinRenewalReminderPayload LeadDays 为 0 时取配置值
type TiffinRenewalReminderPayload struct {
	LeadDays int `json:"lead_days"`
}

// TiffinDeliverySchedulePayload Date 为空表示次日
type TiffinDeliverySchedulePayload struct {
	Date string `json:"date"`
}

func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, body), nil
}

func NewCustomerNotifyTask(payload CustomerNotifyPayload) (*asynq.Task, error) {
	return newTask(TaskCustomerNotify, payload)
}

func NewTiffinRenewalReminderTask(payload TiffinRenewalReminderPayload) (*asynq.Task, error) {
	return newTask(TaskTiffinRenewalReminder, payload)
}

func NewTiffinDeliveryScheduleTask(payload TiffinDeliverySchedulePayload) (*asynq.Task, error) {
	return newTask(TaskTiffinDeliverySchedule, payload)
}

// DecodePayload 解码任务载荷；空载荷得到零值，周期任务常不带参数
func DecodePayload[T any](task *asynq.Task) (T, error) {
	var payload T
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	return payload, nil
}
