package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/i18n"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/queue"
	"github.com/tiffin-desk/internal/repository"
)

var notifyTemplateVarPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// OutboundMessage 发往消息网关的消息
type OutboundMessage struct {
	To        string `json:"to"`
	From      string `json:"from,omitempty"`
	Body      string `json:"message"`
	Event     string `json:"event"`
	Reference string `json:"reference"`
}

// Notifier 客户消息通道
type Notifier interface {
	Enabled() bool
	Send(ctx context.Context, msg OutboundMessage) error
}

// GatewayNotifier 通过 HTTP 网关（WhatsApp/SMS）发送消息
type GatewayNotifier struct {
	cfg    config.NotifyConfig
	client *http.Client
}

// NewGatewayNotifier 创建网关通知器
func NewGatewayNotifier(cfg config.NotifyConfig) *GatewayNotifier {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &GatewayNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Enabled 网关是否可用
func (n *GatewayNotifier) Enabled() bool {
	return n != nil && n.cfg.Enabled && strings.TrimSpace(n.cfg.GatewayURL) != ""
}

// Send 发送消息，网关未启用时返回 ErrNotifierDisabled
func (n *GatewayNotifier) Send(ctx context.Context, msg OutboundMessage) error {
	if !n.Enabled() {
		return ErrNotifierDisabled
	}
	if strings.TrimSpace(msg.To) == "" {
		return ErrNotifyNoReceiver
	}
	if msg.From == "" {
		msg.From = n.cfg.Sender
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := strings.TrimSpace(n.cfg.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotifyFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrNotifyFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}

// NotificationService 客户通知：组装消息、同步发送或入队
type NotificationService struct {
	cfg         *config.Config
	notifier    Notifier
	queueClient *queue.Client
	orderRepo   repository.CateringOrderRepository
	tiffinRepo  repository.TiffinRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(cfg *config.Config, notifier Notifier, queueClient *queue.Client, orderRepo repository.CateringOrderRepository, tiffinRepo repository.TiffinRepository) *NotificationService {
	return &NotificationService{
		cfg:         cfg,
		notifier:    notifier,
		queueClient: queueClient,
		orderRepo:   orderRepo,
		tiffinRepo:  tiffinRepo,
	}
}

// Dispatch 队列可用时入队并返回 sent=false；否则同步发送
func (s *NotificationService) Dispatch(ctx context.Context, payload queue.CustomerNotifyPayload) (bool, error) {
	if s == nil {
		return false, ErrNotifierDisabled
	}
	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueCustomerNotify(payload); err != nil {
			logger.Warnw("notify_enqueue_failed",
				"event", payload.Event,
				"source_type", payload.SourceType,
				"source_id", payload.SourceID,
				"error", err,
			)
			return false, err
		}
		return false, nil
	}
	if err := s.Send(ctx, payload); err != nil {
		return false, err
	}
	return true, nil
}

// Send 立即发送通知，成功后记录餐饮订单的已通知标记
func (s *NotificationService) Send(ctx context.Context, payload queue.CustomerNotifyPayload) error {
	if s.notifier == nil || !s.notifier.Enabled() {
		return ErrNotifierDisabled
	}
	msg, err := s.Compose(payload)
	if err != nil {
		return err
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		return err
	}
	if payload.SourceType == constants.DeliverySourceCatering {
		if err := s.orderRepo.MarkNotificationSent(payload.SourceID); err != nil {
			logger.Warnw("notify_mark_sent_failed", "order_id", payload.SourceID, "error", err)
		}
	}
	logger.Infow("notify_sent",
		"event", payload.Event,
		"source_type", payload.SourceType,
		"source_id", payload.SourceID,
		"reference", msg.Reference,
	)
	return nil
}

// Compose 根据来源单据与事件组装消息
func (s *NotificationService) Compose(payload queue.CustomerNotifyPayload) (OutboundMessage, error) {
	locale := i18n.DefaultLocale
	if s.cfg != nil {
		locale = i18n.NormalizeLocale(s.cfg.Notify.Locale)
	}
	vars := map[string]string{}
	var to, reference string

	switch payload.SourceType {
	case constants.DeliverySourceTiffin:
		order, err := s.tiffinRepo.GetByID(payload.SourceID)
		if err != nil {
			return OutboundMessage{}, err
		}
		if order == nil {
			return OutboundMessage{}, ErrTiffinNotFound
		}
		to, reference = order.CustomerPhone, order.SubscriptionNo
		vars["customer_name"] = order.CustomerName
		vars["order_no"] = order.SubscriptionNo
		vars["plan_name"] = order.PlanName
		vars["start_date"] = formatDate(order.StartDate)
		vars["end_date"] = formatDate(order.EndDate)
		vars["total"] = order.TotalAmount.String()
		vars["pending"] = order.PendingBalance.String()
	default:
		order, err := s.orderRepo.GetByID(payload.SourceID)
		if err != nil {
			return OutboundMessage{}, err
		}
		if order == nil {
			return OutboundMessage{}, ErrOrderNotFound
		}
		to, reference = order.CustomerPhone, order.OrderNo
		vars["customer_name"] = order.CustomerName
		vars["order_no"] = order.OrderNo
		vars["delivery_date"] = formatDate(order.DeliveryDate)
		vars["delivery_time"] = order.DeliveryTime
		vars["total"] = order.TotalAmount.String()
		vars["pending"] = order.PendingBalance.String()
		status := payload.Status
		if status == "" {
			status = order.Status
		}
		vars["status"] = i18n.T(locale, "status."+status)
	}
	if s.cfg != nil {
		vars["currency"] = s.cfg.Order.Currency
		vars["business_name"] = s.cfg.Invoice.BusinessName
	}

	template := i18n.T(locale, "notify."+payload.Event)
	return OutboundMessage{
		To:        to,
		Body:      renderNotifyTemplate(template, vars),
		Event:     payload.Event,
		Reference: reference,
	}, nil
}

func renderNotifyTemplate(template string, vars map[string]string) string {
	return notifyTemplateVarPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := notifyTemplateVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if value, ok := vars[groups[1]]; ok {
			return value
		}
		return ""
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// notifyPayload 构造通知载荷
func notifyPayload(event, sourceType string, sourceID uint, status string) queue.CustomerNotifyPayload {
	return queue.CustomerNotifyPayload{
		Event:      event,
		SourceType: sourceType,
		SourceID:   sourceID,
		Status:     status,
	}
}

// orderEvent 构造订单操作流水
func orderEvent(sourceType string, sourceID uint, action, from, to string, amount models.Money, adminID uint) *models.OrderEvent {
	return &models.OrderEvent{
		SourceType: sourceType,
		SourceID:   sourceID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Amount:     amount,
		AdminID:    adminID,
	}
}
