package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"
)

var allowedDeliveryTransitions = map[string]map[string]bool{
	constants.DeliveryStatusPending: {
		constants.DeliveryStatusAssigned: true,
		constants.DeliveryStatusFailed:   true,
	},
	constants.DeliveryStatusAssigned: {
		constants.DeliveryStatusOutForDelivery: true,
		constants.DeliveryStatusFailed:         true,
	},
	constants.DeliveryStatusOutForDelivery: {
		constants.DeliveryStatusDelivered: true,
		constants.DeliveryStatusFailed:    true,
	},
}

// DeliveryService 配送区域、配送员与配送单
type DeliveryService struct {
	zoneRepo            repository.ZoneRepository
	driverRepo          repository.DriverRepository
	deliveryRepo        repository.DeliveryRepository
	orderRepo           repository.CateringOrderRepository
	tiffinRepo          repository.TiffinRepository
	notificationService *NotificationService
	now                 func() time.Time
}

// NewDeliveryService 创建配送服务
func NewDeliveryService(
	zoneRepo repository.ZoneRepository,
	driverRepo repository.DriverRepository,
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.CateringOrderRepository,
	tiffinRepo repository.TiffinRepository,
	notificationService *NotificationService,
) *DeliveryService {
	return &DeliveryService{
		zoneRepo:            zoneRepo,
		driverRepo:          driverRepo,
		deliveryRepo:        deliveryRepo,
		orderRepo:           orderRepo,
		tiffinRepo:          tiffinRepo,
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// NormalizePostalCode 邮编归一：大写并去除空白
func NormalizePostalCode(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// MatchZone 最长前缀匹配；未启用区域不参与
func MatchZone(zones []models.DeliveryZone, postalCode string) *models.DeliveryZone {
	code := NormalizePostalCode(postalCode)
	if code == "" {
		return nil
	}
	var best *models.DeliveryZone
	bestLen := 0
	for i := range zones {
		zone := &zones[i]
		if !zone.IsActive {
			continue
		}
		for _, prefix := range zone.PostalPrefixes {
			p := NormalizePostalCode(prefix)
			if p == "" || !strings.HasPrefix(code, p) {
				continue
			}
			if len(p) > bestLen || (len(p) == bestLen && best != nil && zone.SortOrder > best.SortOrder) {
				best = zone
				bestLen = len(p)
			}
		}
	}
	return best
}

// AssignZone 根据邮编查找配送区域
func (s *DeliveryService) AssignZone(postalCode string) (*models.DeliveryZone, error) {
	zones, err := s.zoneRepo.List(true)
	if err != nil {
		return nil, err
	}
	zone := MatchZone(zones, postalCode)
	if zone == nil {
		return nil, ErrZoneNotFound
	}
	return zone, nil
}

// ZoneInput 配送区域表单
type ZoneInput struct {
	Name           string
	PostalPrefixes []string
	DeliveryCharge string
	IsActive       bool
	SortOrder      int
}

// ListZones 区域列表
func (s *DeliveryService) ListZones(activeOnly bool) ([]models.DeliveryZone, error) {
	return s.zoneRepo.List(activeOnly)
}

// CreateZone 创建区域
func (s *DeliveryService) CreateZone(input ZoneInput) (*models.DeliveryZone, error) {
	zone := &models.DeliveryZone{}
	if err := applyZoneInput(zone, input); err != nil {
		return nil, err
	}
	if err := s.zoneRepo.Create(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

// UpdateZone 更新区域
func (s *DeliveryService) UpdateZone(id uint, input ZoneInput) (*models.DeliveryZone, error) {
	zone, err := s.zoneRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, ErrZoneNotFound
	}
	if err := applyZoneInput(zone, input); err != nil {
		return nil, err
	}
	if err := s.zoneRepo.Update(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

// DeleteZone 删除区域
func (s *DeliveryService) DeleteZone(id uint) error {
	zone, err := s.zoneRepo.GetByID(id)
	if err != nil {
		return err
	}
	if zone == nil {
		return ErrZoneNotFound
	}
	return s.zoneRepo.Delete(id)
}

func applyZoneInput(zone *models.DeliveryZone, input ZoneInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrZoneInvalid
	}
	prefixes := make(models.StringArray, 0, len(input.PostalPrefixes))
	seen := make(map[string]bool)
	for _, raw := range input.PostalPrefixes {
		p := NormalizePostalCode(raw)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		prefixes = append(prefixes, p)
	}
	if len(prefixes) == 0 {
		return fmt.Errorf("%w: postal_prefixes", ErrZoneInvalid)
	}
	charge, _, err := draft.ParseAmount(input.DeliveryCharge)
	if err != nil {
		return fmt.Errorf("%w: delivery_charge", ErrZoneInvalid)
	}
	zone.Name = name
	zone.PostalPrefixes = prefixes
	zone.DeliveryCharge = models.NewMoneyFromDecimal(charge)
	zone.IsActive = input.IsActive
	zone.SortOrder = input.SortOrder
	return nil
}

// DriverInput 配送员表单
type DriverInput struct {
	StaffID   *uint
	Name      string
	Phone     string
	VehicleNo string
	IsActive  bool
}

// ListDrivers 配送员列表
func (s *DeliveryService) ListDrivers(activeOnly bool) ([]models.Driver, error) {
	return s.driverRepo.List(activeOnly)
}

// SaveDriver 创建（id=0）或更新配送员
func (s *DeliveryService) SaveDriver(id uint, input DriverInput) (*models.Driver, error) {
	name := strings.TrimSpace(input.Name)
	phone := normalizePhone(input.Phone)
	if name == "" || phone == "" {
		return nil, ErrDriverInvalid
	}
	driver := &models.Driver{}
	if id != 0 {
		existing, err := s.driverRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrDriverNotFound
		}
		driver = existing
	}
	driver.StaffID = input.StaffID
	driver.Name = name
	driver.Phone = phone
	driver.VehicleNo = strings.ToUpper(strings.TrimSpace(input.VehicleNo))
	driver.IsActive = input.IsActive
	if id == 0 {
		if err := s.driverRepo.Create(driver); err != nil {
			return nil, err
		}
		return driver, nil
	}
	if err := s.driverRepo.Update(driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// DeleteDriver 删除配送员
func (s *DeliveryService) DeleteDriver(id uint) error {
	driver, err := s.driverRepo.GetByID(id)
	if err != nil {
		return err
	}
	if driver == nil {
		return ErrDriverNotFound
	}
	return s.driverRepo.Delete(id)
}

// ListDeliveries 配送单列表
func (s *DeliveryService) ListDeliveries(filter repository.DeliveryListFilter) ([]models.Delivery, int64, error) {
	return s.deliveryRepo.List(filter)
}

// AssignDriver 派单；未出发前可改派
func (s *DeliveryService) AssignDriver(ctx context.Context, deliveryID, driverID uint) (*models.Delivery, error) {
	delivery, err := s.getDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status != constants.DeliveryStatusPending && delivery.Status != constants.DeliveryStatusAssigned {
		return nil, ErrDeliveryStatusInvalid
	}
	driver, err := s.driverRepo.GetByID(driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, ErrDriverNotFound
	}
	if !driver.IsActive {
		return nil, ErrDriverInactive
	}
	if err := s.deliveryRepo.Update(delivery.ID, map[string]interface{}{
		"driver_id":   driver.ID,
		"status":      constants.DeliveryStatusAssigned,
		"assigned_at": s.now(),
	}); err != nil {
		return nil, err
	}
	logger.Infow("delivery_driver_assigned", "delivery_id", delivery.ID, "order_no", delivery.OrderNo, "driver_id", driver.ID)
	return s.getDelivery(delivery.ID)
}

// UpdateDeliveryStatus 推进配送单状态，并同步餐饮订单状态与客户通知
func (s *DeliveryService) UpdateDeliveryStatus(ctx context.Context, deliveryID uint, target, reason string) (*models.Delivery, error) {
	delivery, err := s.getDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	target = strings.TrimSpace(target)
	if delivery.Status == target {
		return delivery, nil
	}
	if !isTransitionAllowed(allowedDeliveryTransitions, delivery.Status, target) {
		return nil, ErrDeliveryStatusInvalid
	}
	now := s.now()
	updates := map[string]interface{}{"status": target}
	switch target {
	case constants.DeliveryStatusOutForDelivery:
		updates["dispatched_at"] = now
	case constants.DeliveryStatusDelivered:
		updates["delivered_at"] = now
	case constants.DeliveryStatusFailed:
		updates["failed_reason"] = strings.TrimSpace(reason)
	}
	if err := s.deliveryRepo.Update(delivery.ID, updates); err != nil {
		return nil, err
	}
	if delivery.SourceType == constants.DeliverySourceCatering {
		s.syncCateringOrder(ctx, delivery, target, now)
	}
	logger.Infow("delivery_status_changed", "delivery_id", delivery.ID, "order_no", delivery.OrderNo, "from", delivery.Status, "to", target)
	return s.getDelivery(delivery.ID)
}

func (s *DeliveryService) syncCateringOrder(ctx context.Context, delivery *models.Delivery, target string, now time.Time) {
	var from, to string
	updates := map[string]interface{}{}
	switch target {
	case constants.DeliveryStatusOutForDelivery:
		from, to = constants.OrderStatusReady, constants.OrderStatusOutForDelivery
	case constants.DeliveryStatusDelivered:
		from, to = constants.OrderStatusOutForDelivery, constants.OrderStatusDelivered
		updates["delivered_at"] = now
	default:
		return
	}
	ok, err := s.orderRepo.TransitionStatus(delivery.SourceID, from, to, updates)
	if err != nil {
		logger.Warnw("delivery_sync_order_failed", "order_id", delivery.SourceID, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := s.orderRepo.CreateEvent(orderEvent(constants.DeliverySourceCatering, delivery.SourceID, eventActionStatus, from, to, models.Money{}, 0)); err != nil {
		logger.Warnw("delivery_sync_order_event_failed", "order_id", delivery.SourceID, "error", err)
	}
	order, err := s.orderRepo.GetByID(delivery.SourceID)
	if err != nil || order == nil || !order.NotifyCustomer || s.notificationService == nil {
		return
	}
	event := constants.NotifyEventOrderStatusChanged
	if to == constants.OrderStatusOutForDelivery {
		event = constants.NotifyEventOutForDelivery
	}
	if _, err := s.notificationService.Dispatch(ctx, notifyPayload(event, constants.DeliverySourceCatering, order.ID, to)); err != nil {
		logger.Warnw("delivery_sync_notify_failed", "order_id", order.ID, "error", err)
	}
}

// ScheduleTiffinDeliveries 为指定日期的有效订阅生成配送单，已存在的跳过
func (s *DeliveryService) ScheduleTiffinDeliveries(ctx context.Context, day time.Time) (int, error) {
	day = dateOf(day)
	orders, err := s.tiffinRepo.ListActiveOn(day)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, order := range orders {
		if !deliversOn(order.DeliveryDays, day.Weekday()) {
			continue
		}
		ok, err := s.deliveryRepo.CreateIfAbsent(&models.Delivery{
			SourceType:    constants.DeliverySourceTiffin,
			SourceID:      order.ID,
			ScheduledDate: day,
			OrderNo:       order.SubscriptionNo,
			ZoneID:        order.ZoneID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			Address:       order.DeliveryAddress,
			PostalCode:    order.PostalCode,
			Status:        constants.DeliveryStatusPending,
		})
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	logger.Infow("tiffin_deliveries_scheduled", "date", formatDate(day), "subscriptions", len(orders), "created", created)
	return created, nil
}

// TrackingStep 公开追踪的配送记录
type TrackingStep struct {
	ScheduledDate string     `json:"scheduled_date"`
	Status        string     `json:"status"`
	DriverName    string     `json:"driver_name,omitempty"`
	DispatchedAt  *time.Time `json:"dispatched_at,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
}

// TrackingView 公开追踪结果，不含金额与完整联系方式
type TrackingView struct {
	OrderNo      string         `json:"order_no"`
	Kind         string         `json:"kind"`
	Status       string         `json:"status"`
	CustomerName string         `json:"customer_name"`
	Deliveries   []TrackingStep `json:"deliveries"`
}

// Track 按单号与手机号后四位查询配送进度
func (s *DeliveryService) Track(orderNo, phoneSuffix string) (*TrackingView, error) {
	orderNo = strings.ToUpper(strings.TrimSpace(orderNo))
	suffix := normalizePhone(phoneSuffix)
	if orderNo == "" || len(suffix) < 4 {
		return nil, ErrTrackingNotFound
	}
	view := &TrackingView{OrderNo: orderNo}
	var phone string
	if order, err := s.orderRepo.GetByOrderNo(orderNo); err != nil {
		return nil, err
	} else if order != nil {
		view.Kind, view.Status, view.CustomerName, phone = constants.DeliverySourceCatering, order.Status, maskName(order.CustomerName), order.CustomerPhone
	} else {
		tiffin, err := s.tiffinRepo.GetBySubscriptionNo(orderNo)
		if err != nil {
			return nil, err
		}
		if tiffin == nil {
			return nil, ErrTrackingNotFound
		}
		view.Kind, view.Status, view.CustomerName, phone = constants.DeliverySourceTiffin, tiffin.Status, maskName(tiffin.CustomerName), tiffin.CustomerPhone
	}
	if !strings.HasSuffix(phone, suffix) {
		return nil, ErrTrackingNotFound
	}
	deliveries, err := s.deliveryRepo.ListByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	view.Deliveries = make([]TrackingStep, 0, len(deliveries))
	for _, d := range deliveries {
		step := TrackingStep{
			ScheduledDate: formatDate(d.ScheduledDate),
			Status:        d.Status,
			DispatchedAt:  d.DispatchedAt,
			DeliveredAt:   d.DeliveredAt,
		}
		if d.Driver != nil {
			step.DriverName = d.Driver.Name
		}
		view.Deliveries = append(view.Deliveries, step)
	}
	return view, nil
}

func (s *DeliveryService) getDelivery(id uint) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, ErrDeliveryNotFound
	}
	return delivery, nil
}

func maskName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) <= 1 {
		return string(runes)
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-1)
}
