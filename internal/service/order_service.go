package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/cache"
	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// 订单流水动作
const (
	eventActionCreated = "created"
	eventActionEdited  = "edited"
	eventActionStatus  = "status"
	eventActionPayment = "payment"
	eventActionDetails = "details"
	eventActionRenewed = "renewed"
)

var allowedOrderTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusPreparing: true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusReady:    true,
		constants.OrderStatusCanceled: true,
	},
	constants.OrderStatusReady: {
		constants.OrderStatusOutForDelivery: true,
	},
	constants.OrderStatusOutForDelivery: {
		constants.OrderStatusDelivered: true,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusCompleted: true,
	},
}

var editableOrderStatuses = map[string]bool{
	constants.OrderStatusPending:   true,
	constants.OrderStatusConfirmed: true,
	constants.OrderStatusPreparing: true,
}

// OrderService 餐饮订单服务
type OrderService struct {
	cfg                 *config.Config
	orderRepo           repository.CateringOrderRepository
	customerRepo        repository.CustomerRepository
	deliveryRepo        repository.DeliveryRepository
	zoneRepo            repository.ZoneRepository
	catalog             draft.Catalog
	draftService        *DraftService
	settingService      *SettingService
	notificationService *NotificationService
	validate            *validator.Validate
	now                 func() time.Time
}

// NewOrderService 创建餐饮订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.CateringOrderRepository,
	customerRepo repository.CustomerRepository,
	deliveryRepo repository.DeliveryRepository,
	zoneRepo repository.ZoneRepository,
	catalog draft.Catalog,
	draftService *DraftService,
	settingService *SettingService,
	notificationService *NotificationService,
) *OrderService {
	return &OrderService{
		cfg:                 cfg,
		orderRepo:           orderRepo,
		customerRepo:        customerRepo,
		deliveryRepo:        deliveryRepo,
		zoneRepo:            zoneRepo,
		catalog:             catalog,
		draftService:        draftService,
		settingService:      settingService,
		notificationService: notificationService,
		validate:            newValidator(),
		now:                 time.Now,
	}
}

// CustomerInput 下单客户信息
type CustomerInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"required,min=6,max=40"`
	Email string `json:"email" validate:"omitempty,email,max=200"`
}

// OrderItemInput 直接提交的菜单菜品行，单价取提交时的菜单价
type OrderItemInput struct {
	ItemID   uint   `json:"item_id" validate:"required"`
	Size     string `json:"size" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// CustomItemInput 直接提交的自定义菜品行
type CustomItemInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Size  string `json:"size" validate:"max=50"`
	Price string `json:"price" validate:"required"`
}

// SubmitCateringOrderInput 提交餐饮订单参数。
// 带 DraftID 时以服务端草稿为准，否则由请求体中的菜品与付款字段组装订单，两者不能同时出现。
type SubmitCateringOrderInput struct {
	DraftID         string            `json:"draft_id" validate:"omitempty,uuid"`
	Customer        CustomerInput     `json:"customer" validate:"required"`
	DeliveryAddress string            `json:"delivery_address" validate:"required,max=500"`
	PostalCode      string            `json:"postal_code" validate:"omitempty,max=20"`
	DeliveryDate    string            `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	DeliveryTime    string            `json:"delivery_time" validate:"omitempty,datetime=15:04"`
	EventType       string            `json:"event_type" validate:"max=100"`
	GuestCount      int               `json:"guest_count" validate:"gte=0"`
	NotifyCustomer  bool              `json:"notify_customer"`
	Items           []OrderItemInput  `json:"items" validate:"omitempty,dive"`
	CustomItems     []CustomItemInput `json:"custom_items" validate:"omitempty,dive"`
	DeliveryCharge  string            `json:"delivery_charge"`
	AdvancePaid     string            `json:"advance_paid"`
	Discount        string            `json:"discount"`
	TaxExempt       bool              `json:"tax_exempt"`
	Note            string            `json:"note" validate:"max=1000"`
	AdminID         uint              `json:"-"`
	RequestID       string            `json:"-"`
}

func (in SubmitCateringOrderInput) hasInlineOrder() bool {
	return len(in.Items) > 0 || len(in.CustomItems) > 0 ||
		strings.TrimSpace(in.DeliveryCharge+in.AdvancePaid+in.Discount+in.Note) != "" || in.TaxExempt
}

// draftActions 把请求体中的订单内容转换为草稿动作，与录单界面走同一套校验
func (in SubmitCateringOrderInput) draftActions() []draft.Action {
	actions := make([]draft.Action, 0, len(in.Items)+len(in.CustomItems)+5)
	for _, item := range in.Items {
		actions = append(actions, draft.Action{Type: draft.ActionAddItem, ItemID: item.ItemID, Size: item.Size, Quantity: item.Quantity})
	}
	for _, item := range in.CustomItems {
		actions = append(actions, draft.Action{Type: draft.ActionAddCustomItem, Name: item.Name, Size: item.Size, Price: item.Price})
	}
	payments := []struct {
		field draft.PaymentField
		value string
	}{
		{draft.FieldDeliveryCharge, in.DeliveryCharge},
		{draft.FieldAdvancePaid, in.AdvancePaid},
		{draft.FieldDiscount, in.Discount},
	}
	for _, p := range payments {
		actions = append(actions, draft.Action{Type: draft.ActionSetPaymentField, Field: string(p.field), Value: p.value})
	}
	return append(actions,
		draft.Action{Type: draft.ActionSetTaxExempt, TaxExempt: in.TaxExempt},
		draft.Action{Type: draft.ActionSetNote, Note: in.Note},
	)
}

// SubmitResult 提交结果
type SubmitResult struct {
	OrderID            uint         `json:"order_id"`
	OrderNo            string       `json:"order_no"`
	NotificationSent   bool         `json:"notification_sent"`
	NotificationQueued bool         `json:"notification_queued"`
	PaymentState       string       `json:"payment_state"`
	Totals             draft.Totals `json:"totals"`
}

// OrderDetail 订单详情
type OrderDetail struct {
	Order        *models.CateringOrder `json:"order"`
	PaymentState string                `json:"payment_state"`
	Events       []models.OrderEvent   `json:"events"`
	Deliveries   []models.Delivery     `json:"deliveries"`
}

// OrderListResult 订单列表（用于缓存）
type OrderListResult struct {
	Orders []models.CateringOrder `json:"orders"`
	Total  int64                  `json:"total"`
}

// SubmitCateringOrder 校验、对账并持久化订单。
// 本地校验失败不产生任何写入；持久化失败时草稿保留以便重试。
func (s *OrderService) SubmitCateringOrder(ctx context.Context, input SubmitCateringOrderInput) (*SubmitResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(ErrOrderValidation, err)
	}
	deliveryDate, err := parseDate(input.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: delivery_date", ErrOrderValidation)
	}
	if deliveryDate.Before(dateOf(s.now())) {
		return nil, ErrDeliveryDatePast
	}

	var (
		order  *models.CateringOrder
		totals draft.Totals
	)
	persist := func(d draft.Draft) error {
		var err error
		order, totals, err = s.createOrder(input, deliveryDate, d)
		return err
	}
	if strings.TrimSpace(input.DraftID) != "" {
		if input.hasInlineOrder() {
			return nil, fmt.Errorf("%w: draft_id excludes inline items", ErrOrderValidation)
		}
		err = s.draftService.Checkout(ctx, input.DraftID, input.AdminID, persist)
	} else {
		var d draft.Draft
		d, err = draft.ApplyAll(draft.New(), s.catalog, input.draftActions())
		if err == nil {
			err = persist(d)
		}
	}
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	result := &SubmitResult{
		OrderID:      order.ID,
		OrderNo:      order.OrderNo,
		PaymentState: order.PaymentState(),
		Totals:       totals,
	}
	if input.NotifyCustomer {
		result.NotificationSent, result.NotificationQueued = s.notify(ctx, constants.NotifyEventOrderPlaced, order.ID, order.Status)
	}
	logger.Infow("catering_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total", order.TotalAmount.String(),
		"pending", order.PendingBalance.String(),
		"notification_sent", result.NotificationSent,
	)
	return result, nil
}

// createOrder 校验草稿金额、对账并在事务内写入订单、客户、配送单与事件
func (s *OrderService) createOrder(input SubmitCateringOrderInput, deliveryDate time.Time, d draft.Draft) (*models.CateringOrder, draft.Totals, error) {
	if err := checkDraftAmounts(d); err != nil {
		return nil, draft.Totals{}, err
	}
	rate := resolveTaxRate(s.cfg, s.settingService)
	totals := draft.Reconcile(d, rate)
	zoneID := s.lookupZoneID(input.PostalCode)
	now := s.now()

	order := &models.CateringOrder{
		OrderNo:          generateOrderNo("CT"),
		CustomerName:     strings.TrimSpace(input.Customer.Name),
		CustomerPhone:    normalizePhone(input.Customer.Phone),
		CustomerEmail:    strings.TrimSpace(input.Customer.Email),
		DeliveryAddress:  strings.TrimSpace(input.DeliveryAddress),
		PostalCode:       NormalizePostalCode(input.PostalCode),
		ZoneID:           zoneID,
		DeliveryDate:     deliveryDate,
		DeliveryTime:     strings.TrimSpace(input.DeliveryTime),
		EventType:        strings.TrimSpace(input.EventType),
		GuestCount:       input.GuestCount,
		Status:           constants.OrderStatusPending,
		NotifyCustomer:   input.NotifyCustomer,
		CreatedByAdminID: input.AdminID,
	}
	order.ApplyDraft(d, rate, totals)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.WithTx(tx).UpsertForOrder(&models.Customer{
			Name:       order.CustomerName,
			Phone:      order.CustomerPhone,
			Email:      order.CustomerEmail,
			Address:    order.DeliveryAddress,
			PostalCode: order.PostalCode,
		}, now)
		if err != nil {
			return err
		}
		order.CustomerID = customer.ID

		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		if _, err := s.deliveryRepo.WithTx(tx).CreateIfAbsent(cateringDelivery(order)); err != nil {
			return err
		}
		event := orderEvent(constants.DeliverySourceCatering, order.ID, eventActionCreated, "", order.Status, order.TotalAmount, input.AdminID)
		event.RequestID = input.RequestID
		return orderRepo.CreateEvent(event)
	})
	if err != nil {
		logger.Errorw("catering_order_create_failed",
			"draft_id", input.DraftID,
			"customer_phone", order.CustomerPhone,
			"error", err,
		)
		return nil, totals, fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}
	return order, totals, nil
}

// GetOrder 订单详情
func (s *OrderService) GetOrder(id uint) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.buildDetail(order)
}

// GetOrderByNo 按订单号查询详情
func (s *OrderService) GetOrderByNo(orderNo string) (*OrderDetail, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.buildDetail(order)
}

func (s *OrderService) buildDetail(order *models.CateringOrder) (*OrderDetail, error) {
	events, err := s.orderRepo.ListEvents(constants.DeliverySourceCatering, order.ID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	deliveries, err := s.deliveryRepo.ListByOrderNo(order.OrderNo)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	return &OrderDetail{
		Order:        order,
		PaymentState: order.PaymentState(),
		Events:       events,
		Deliveries:   deliveries,
	}, nil
}

// ListOrders 订单列表，按列表版本号缓存
func (s *OrderService) ListOrders(ctx context.Context, filter repository.CateringOrderListFilter) ([]models.CateringOrder, int64, error) {
	ttl := s.listingTTL()
	var cached OrderListResult
	if ttl > 0 {
		hit, err := cache.GetListing(ctx, cache.ListingScopeCateringOrders, filter, &cached)
		if err != nil {
			logger.Warnw("catering_order_list_cache_get_failed", "error", err)
		}
		if hit {
			return cached.Orders, cached.Total, nil
		}
	}
	orders, total, err := s.orderRepo.List(filter)
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	if ttl > 0 {
		if err := cache.SetListing(ctx, cache.ListingScopeCateringOrders, filter, OrderListResult{Orders: orders, Total: total}, ttl); err != nil {
			logger.Warnw("catering_order_list_cache_set_failed", "error", err)
		}
	}
	return orders, total, nil
}

// EditOrder 将草稿动作重放到已保存订单上并重新对账，沿用下单时税率
func (s *OrderService) EditOrder(ctx context.Context, id uint, actions []draft.Action, adminID uint) (*models.CateringOrder, draft.Totals, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, draft.Totals{}, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, draft.Totals{}, ErrOrderNotFound
	}
	if !editableOrderStatuses[order.Status] {
		return nil, draft.Totals{}, ErrOrderNotEditable
	}
	next, err := draft.ApplyAll(order.ToDraft(), s.catalog, actions)
	if err != nil {
		return nil, draft.Totals{}, err
	}
	if err := checkDraftAmounts(next); err != nil {
		return nil, draft.Totals{}, err
	}
	totals := draft.Reconcile(next, order.TaxRate)
	order.ApplyDraft(next, order.TaxRate, totals)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.Save(order); err != nil {
			return err
		}
		event := orderEvent(constants.DeliverySourceCatering, order.ID, eventActionEdited, order.Status, order.Status, order.TotalAmount, adminID)
		event.DetailJSON = models.JSON{"actions": len(actions)}
		return repo.CreateEvent(event)
	})
	if err != nil {
		return nil, draft.Totals{}, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	s.invalidateListing(ctx)
	return order, totals, nil
}

// OrderDetailsInput 修改配送信息
type OrderDetailsInput struct {
	DeliveryAddress string `json:"delivery_address" validate:"required,max=500"`
	PostalCode      string `json:"postal_code" validate:"omitempty,max=20"`
	DeliveryDate    string `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	DeliveryTime    string `json:"delivery_time" validate:"omitempty,datetime=15:04"`
	EventType       string `json:"event_type" validate:"max=100"`
	GuestCount      int    `json:"guest_count" validate:"gte=0"`
}

// UpdateDetails 修改配送地址与日期，同步配送单
func (s *OrderService) UpdateDetails(ctx context.Context, id uint, input OrderDetailsInput, adminID uint) (*models.CateringOrder, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(ErrOrderValidation, err)
	}
	deliveryDate, err := parseDate(input.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: delivery_date", ErrOrderValidation)
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !editableOrderStatuses[order.Status] {
		return nil, ErrOrderNotEditable
	}
	if !deliveryDate.Equal(order.DeliveryDate) && deliveryDate.Before(dateOf(s.now())) {
		return nil, ErrDeliveryDatePast
	}

	order.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	order.PostalCode = NormalizePostalCode(input.PostalCode)
	order.ZoneID = s.lookupZoneID(order.PostalCode)
	order.DeliveryDate = deliveryDate
	order.DeliveryTime = strings.TrimSpace(input.DeliveryTime)
	order.EventType = strings.TrimSpace(input.EventType)
	order.GuestCount = input.GuestCount

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.Save(order); err != nil {
			return err
		}
		if err := s.deliveryRepo.WithTx(tx).UpdateBySource(constants.DeliverySourceCatering, order.ID, map[string]interface{}{
			"scheduled_date": order.DeliveryDate,
			"address":        order.DeliveryAddress,
			"postal_code":    order.PostalCode,
			"zone_id":        order.ZoneID,
		}); err != nil {
			return err
		}
		return repo.CreateEvent(orderEvent(constants.DeliverySourceCatering, order.ID, eventActionDetails, order.Status, order.Status, models.Money{}, adminID))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	s.invalidateListing(ctx)
	return order, nil
}

// UpdateStatus 按状态机推进订单
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, target string, adminID uint) (*models.CateringOrder, error) {
	target = strings.TrimSpace(target)
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == target {
		return order, nil
	}
	if !isTransitionAllowed(allowedOrderTransitions, order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := s.now()
	updates := map[string]interface{}{}
	deliveryUpdates := map[string]interface{}{}
	switch target {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case constants.OrderStatusOutForDelivery:
		deliveryUpdates["status"] = constants.DeliveryStatusOutForDelivery
		deliveryUpdates["dispatched_at"] = now
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
		deliveryUpdates["status"] = constants.DeliveryStatusDelivered
		deliveryUpdates["delivered_at"] = now
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = now
		deliveryUpdates["status"] = constants.DeliveryStatusFailed
		deliveryUpdates["failed_reason"] = "order canceled"
	}

	from := order.Status
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		ok, err := repo.TransitionStatus(order.ID, from, target, updates)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderStatusInvalid
		}
		if len(deliveryUpdates) > 0 {
			if err := s.deliveryRepo.WithTx(tx).UpdateBySource(constants.DeliverySourceCatering, order.ID, deliveryUpdates); err != nil {
				return err
			}
		}
		return repo.CreateEvent(orderEvent(constants.DeliverySourceCatering, order.ID, eventActionStatus, from, target, models.Money{}, adminID))
	})
	if err != nil {
		if errors.Is(err, ErrOrderStatusInvalid) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	s.invalidateListing(ctx)
	logger.Infow("catering_order_status_changed", "order_id", order.ID, "order_no", order.OrderNo, "from", from, "to", target)

	if order.NotifyCustomer {
		switch target {
		case constants.OrderStatusOutForDelivery:
			s.notify(ctx, constants.NotifyEventOutForDelivery, order.ID, target)
		case constants.OrderStatusConfirmed, constants.OrderStatusDelivered, constants.OrderStatusCanceled:
			s.notify(ctx, constants.NotifyEventOrderStatusChanged, order.ID, target)
		}
	}
	return s.orderRepo.GetByID(order.ID)
}

// RecordPayment 登记收款（累加到已预付）并重新对账
func (s *OrderService) RecordPayment(ctx context.Context, id uint, rawAmount string, adminID uint) (*models.CateringOrder, draft.Totals, error) {
	amount, set, err := draft.ParseAmount(rawAmount)
	if err != nil || !set || !amount.IsPositive() {
		return nil, draft.Totals{}, ErrPaymentAmount
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, draft.Totals{}, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, draft.Totals{}, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCanceled {
		return nil, draft.Totals{}, ErrOrderNotEditable
	}
	d := order.ToDraft()
	d.AdvancePaid = d.AdvancePaid.Add(amount)
	totals := draft.Reconcile(d, order.TaxRate)
	order.ApplyDraft(d, order.TaxRate, totals)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)
		if err := repo.Save(order); err != nil {
			return err
		}
		return repo.CreateEvent(orderEvent(constants.DeliverySourceCatering, order.ID, eventActionPayment, order.Status, order.Status, models.NewMoneyFromDecimal(amount), adminID))
	})
	if err != nil {
		return nil, draft.Totals{}, fmt.Errorf("%w: %v", ErrOrderUpdateFailed, err)
	}
	s.invalidateListing(ctx)
	logger.Infow("catering_order_payment_recorded",
		"order_id", order.ID,
		"amount", amount.StringFixed(2),
		"pending", order.PendingBalance.String(),
		"payment_state", order.PaymentState(),
	)
	return order, totals, nil
}

// Resend 手动重发下单通知
func (s *OrderService) Resend(ctx context.Context, id uint) (bool, bool, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return false, false, ErrOrderFetchFailed
	}
	if order == nil {
		return false, false, ErrOrderNotFound
	}
	if s.notificationService == nil {
		return false, false, ErrNotifierDisabled
	}
	sent, err := s.notificationService.Dispatch(ctx, notifyPayload(constants.NotifyEventOrderPlaced, constants.DeliverySourceCatering, order.ID, order.Status))
	if err != nil {
		return false, false, err
	}
	return sent, !sent, nil
}

// notify 发送或入队通知；失败只记录日志，不影响订单本身
func (s *OrderService) notify(ctx context.Context, event string, orderID uint, status string) (sent bool, queued bool) {
	if s.notificationService == nil {
		return false, false
	}
	sent, err := s.notificationService.Dispatch(ctx, notifyPayload(event, constants.DeliverySourceCatering, orderID, status))
	if err != nil {
		logger.Warnw("catering_order_notify_failed", "order_id", orderID, "event", event, "error", err)
		return false, false
	}
	return sent, !sent
}

func (s *OrderService) lookupZoneID(postalCode string) *uint {
	if strings.TrimSpace(postalCode) == "" || s.zoneRepo == nil {
		return nil
	}
	zones, err := s.zoneRepo.List(true)
	if err != nil {
		logger.Warnw("zone_lookup_failed", "postal_code", postalCode, "error", err)
		return nil
	}
	zone := MatchZone(zones, postalCode)
	if zone == nil {
		return nil
	}
	id := zone.ID
	return &id
}

func (s *OrderService) listingTTL() time.Duration {
	if s.cfg == nil || s.cfg.Order.ListingCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(s.cfg.Order.ListingCacheSeconds) * time.Second
}

func (s *OrderService) invalidateListing(ctx context.Context) {
	if err := cache.BumpListingVersion(ctx, cache.ListingScopeCateringOrders); err != nil {
		logger.Warnw("catering_order_list_cache_bump_failed", "error", err)
	}
}

func cateringDelivery(order *models.CateringOrder) *models.Delivery {
	return &models.Delivery{
		SourceType:    constants.DeliverySourceCatering,
		SourceID:      order.ID,
		ScheduledDate: order.DeliveryDate,
		OrderNo:       order.OrderNo,
		ZoneID:        order.ZoneID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Address:       order.DeliveryAddress,
		PostalCode:    order.PostalCode,
		Status:        constants.DeliveryStatusPending,
	}
}

func isTransitionAllowed(table map[string]map[string]bool, current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || (r == '+' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func generateOrderNo(prefix string) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", prefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
