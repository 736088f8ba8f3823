package queue

import (
	"encoding/json"
	"testing"

	"github.com/tiffin-desk/internal/config"

	"github.com/hibiken/asynq"
)

func TestBuildPeriodicTasks(t *testing.T) {
	tasks, err := BuildPeriodicTasks(&config.TiffinConfig{
		RenewalLeadDays: 2,
		ReminderCron:    "@every 6h",
		ScheduleCron:    "",
	})
	if err != nil {
		t.Fatalf("build periodic tasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task when schedule cron is blank, got %d", len(tasks))
	}
	if tasks[0].Task.Type() != TaskTiffinRenewalReminder {
		t.Fatalf("unexpected task type %s", tasks[0].Task.Type())
	}
	var payload TiffinRenewalReminderPayload
	if err := json.Unmarshal(tasks[0].Task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.LeadDays != 2 {
		t.Fatalf("expected lead days 2, got %d", payload.LeadDays)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueCustomerNotify(CustomerNotifyPayload{Event: "order_placed", SourceID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || len(cfg.Queues) != 2 {
		t.Fatalf("unexpected server config %+v", cfg)
	}
}

func TestCustomerNotifyDedupIDSeparatesStatuses(t *testing.T) {
	confirmed := CustomerNotifyPayload{Event: "status_changed", SourceType: "catering", SourceID: 9, Status: "confirmed"}
	delivered := confirmed
	delivered.Status = "delivered"
	if confirmed.dedupID() == delivered.dedupID() {
		t.Fatalf("different statuses must not share a task id")
	}
	if confirmed.dedupID() != "notify:catering:9:status_changed:confirmed" {
		t.Fatalf("unexpected dedup id %s", confirmed.dedupID())
	}
}

func TestDecodePayload(t *testing.T) {
	task, err := NewTiffinDeliveryScheduleTask(TiffinDeliverySchedulePayload{Date: "2026-10-20"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	payload, err := DecodePayload[TiffinDeliverySchedulePayload](task)
	if err != nil || payload.Date != "2026-10-20" {
		t.Fatalf("decode: payload=%+v err=%v", payload, err)
	}

	empty, err := DecodePayload[TiffinRenewalReminderPayload](asynq.NewTask(TaskTiffinRenewalReminder, nil))
	if err != nil || empty.LeadDays != 0 {
		t.Fatalf("empty payload should decode to zero value, got %+v err=%v", empty, err)
	}
	if _, err := DecodePayload[CustomerNotifyPayload](asynq.NewTask(TaskCustomerNotify, []byte("{"))); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}
