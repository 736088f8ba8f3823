package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tiffin-desk/internal/config"
	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/draft"
	"github.com/tiffin-desk/internal/logger"
	"github.com/tiffin-desk/internal/models"
	"github.com/tiffin-desk/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var weekdayCodes = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

var weekdayOrder = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var allowedTiffinTransitions = map[string]map[string]bool{
	constants.TiffinStatusActive: {
		constants.TiffinStatusPaused:   true,
		constants.TiffinStatusCanceled: true,
	},
	constants.TiffinStatusPaused: {
		constants.TiffinStatusActive:   true,
		constants.TiffinStatusCanceled: true,
	},
}

// TiffinService 包月送餐订阅
type TiffinService struct {
	cfg                 *config.Config
	tiffinRepo          repository.TiffinRepository
	orderRepo           repository.CateringOrderRepository
	customerRepo        repository.CustomerRepository
	zoneRepo            repository.ZoneRepository
	settingService      *SettingService
	notificationService *NotificationService
	validate            *validator.Validate
	now                 func() time.Time
}

// NewTiffinService 创建包月订阅服务
func NewTiffinService(
	cfg *config.Config,
	tiffinRepo repository.TiffinRepository,
	orderRepo repository.CateringOrderRepository,
	customerRepo repository.CustomerRepository,
	zoneRepo repository.ZoneRepository,
	settingService *SettingService,
	notificationService *NotificationService,
) *TiffinService {
	return &TiffinService{
		cfg:                 cfg,
		tiffinRepo:          tiffinRepo,
		orderRepo:           orderRepo,
		customerRepo:        customerRepo,
		zoneRepo:            zoneRepo,
		settingService:      settingService,
		notificationService: notificationService,
		validate:            newValidator(),
		now:                 time.Now,
	}
}

// CreateTiffinInput 新建订阅参数
type CreateTiffinInput struct {
	Customer        CustomerInput `json:"customer" validate:"required"`
	DeliveryAddress string        `json:"delivery_address" validate:"required,max=500"`
	PostalCode      string        `json:"postal_code" validate:"omitempty,max=20"`
	PlanName        string        `json:"plan_name" validate:"required,max=100"`
	MealType        string        `json:"meal_type" validate:"required,oneof=lunch dinner both"`
	TiffinsPerDay   int           `json:"tiffins_per_day" validate:"required,gte=1,lte=50"`
	PricePerTiffin  string        `json:"price_per_tiffin" validate:"required"`
	StartDate       string        `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string        `json:"end_date" validate:"required,datetime=2006-01-02"`
	DeliveryDays    []string      `json:"delivery_days" validate:"required,min=1,dive,oneof=mon tue wed thu fri sat sun"`
	DeliveryCharge  string        `json:"delivery_charge"`
	Discount        string        `json:"discount"`
	AdvancePaid     string        `json:"advance_paid"`
	TaxExempt       bool          `json:"tax_exempt"`
	Note            string        `json:"note" validate:"max=2000"`
	NotifyCustomer  bool          `json:"notify_customer"`
	AdminID         uint          `json:"-"`
}

// TiffinDetail 订阅详情
type TiffinDetail struct {
	Order        *models.TiffinOrder `json:"order"`
	PaymentState string              `json:"payment_state"`
	Totals       draft.Totals        `json:"totals"`
	Events       []models.OrderEvent `json:"events"`
}

// Create 创建包月订阅
func (s *TiffinService) Create(ctx context.Context, input CreateTiffinInput) (*TiffinDetail, error) {
	input.DeliveryDays = normalizeDeliveryDays(input.DeliveryDays)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(ErrTiffinInvalid, err)
	}
	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date", ErrTiffinInvalid)
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date", ErrTiffinInvalid)
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	price, set, err := draft.ParseAmount(input.PricePerTiffin)
	if err != nil || !set {
		return nil, fmt.Errorf("%w: price_per_tiffin", ErrTiffinInvalid)
	}
	payments := make(map[string]decimal.Decimal, 3)
	for field, raw := range map[string]string{
		"delivery_charge": input.DeliveryCharge,
		"discount":        input.Discount,
		"advance_paid":    input.AdvancePaid,
	} {
		amount, _, err := draft.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTiffinInvalid, field)
		}
		payments[field] = amount
	}

	order := &models.TiffinOrder{
		SubscriptionNo:   generateOrderNo("TF"),
		CustomerName:     strings.TrimSpace(input.Customer.Name),
		CustomerPhone:    normalizePhone(input.Customer.Phone),
		DeliveryAddress:  strings.TrimSpace(input.DeliveryAddress),
		PostalCode:       NormalizePostalCode(input.PostalCode),
		PlanName:         strings.TrimSpace(input.PlanName),
		MealType:         input.MealType,
		TiffinsPerDay:    input.TiffinsPerDay,
		PricePerTiffin:   models.NewMoneyFromDecimal(price),
		StartDate:        start,
		EndDate:          end,
		DeliveryDays:     models.StringArray(input.DeliveryDays),
		Status:           constants.TiffinStatusActive,
		Note:             strings.TrimSpace(input.Note),
		TaxExempt:        input.TaxExempt,
		DeliveryCharge:   models.NewMoneyFromDecimal(payments["delivery_charge"]),
		Discount:         models.NewMoneyFromDecimal(payments["discount"]),
		AdvancePaid:      models.NewMoneyFromDecimal(payments["advance_paid"]),
		CreatedByAdminID: input.AdminID,
	}
	order.ZoneID = s.lookupZoneID(order.PostalCode)
	if err := s.price(order, resolveTaxRate(s.cfg, s.settingService)); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Customer.Email)
	if err := s.persistNew(order, email, eventActionCreated); err != nil {
		return nil, err
	}
	if input.NotifyCustomer {
		s.notify(ctx, constants.NotifyEventTiffinCreated, order)
	}
	logger.Infow("tiffin_order_created",
		"tiffin_id", order.ID,
		"subscription_no", order.SubscriptionNo,
		"delivery_days", order.DeliveryDayCount,
		"total", order.TotalAmount.String(),
	)
	return s.detail(order)
}

// Get 订阅详情
func (s *TiffinService) Get(id uint) (*TiffinDetail, error) {
	order, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.detail(order)
}

// List 订阅列表
func (s *TiffinService) List(filter repository.TiffinListFilter) ([]models.TiffinOrder, int64, error) {
	return s.tiffinRepo.List(filter)
}

// Pause 暂停订阅
func (s *TiffinService) Pause(id, adminID uint) (*models.TiffinOrder, error) {
	return s.transition(id, constants.TiffinStatusPaused, adminID)
}

// Resume 恢复订阅；已过结束日期的订阅不可恢复
func (s *TiffinService) Resume(id, adminID uint) (*models.TiffinOrder, error) {
	order, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if order.EndDate.Before(dateOf(s.now())) {
		return nil, ErrTiffinStatusInvalid
	}
	return s.transition(id, constants.TiffinStatusActive, adminID)
}

// Cancel 取消订阅
func (s *TiffinService) Cancel(id, adminID uint) (*models.TiffinOrder, error) {
	return s.transition(id, constants.TiffinStatusCanceled, adminID)
}

func (s *TiffinService) transition(id uint, target string, adminID uint) (*models.TiffinOrder, error) {
	order, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return order, nil
	}
	if !isTransitionAllowed(allowedTiffinTransitions, order.Status, target) {
		return nil, ErrTiffinStatusInvalid
	}
	now := s.now()
	updates := map[string]interface{}{}
	switch target {
	case constants.TiffinStatusPaused:
		updates["paused_at"] = now
	case constants.TiffinStatusActive:
		updates["paused_at"] = nil
	case constants.TiffinStatusCanceled:
		updates["canceled_at"] = now
	}
	from := order.Status
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.tiffinRepo.WithTx(tx).TransitionStatus(order.ID, from, target, updates)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTiffinStatusInvalid
		}
		return s.orderRepo.WithTx(tx).CreateEvent(orderEvent(constants.DeliverySourceTiffin, order.ID, eventActionStatus, from, target, models.Money{}, adminID))
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("tiffin_order_status_changed", "tiffin_id", order.ID, "from", from, "to", target)
	return s.load(order.ID)
}

// Renew 从原订阅结束次日开始续订一个周期，价格与配送星期沿用原订阅
func (s *TiffinService) Renew(ctx context.Context, id, adminID uint, periodDays int) (*TiffinDetail, error) {
	prev, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if prev.Status == constants.TiffinStatusCanceled {
		return nil, ErrTiffinStatusInvalid
	}
	existing, err := s.tiffinRepo.GetRenewalOf(prev.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTiffinAlreadyRenewed
	}
	if periodDays <= 0 {
		periodDays = int(prev.EndDate.Sub(prev.StartDate).Hours()/24) + 1
	}
	if periodDays <= 0 && s.cfg != nil {
		periodDays = s.cfg.Tiffin.DefaultPeriodDays
	}
	if periodDays <= 0 {
		periodDays = 30
	}
	start := dateOf(prev.EndDate).AddDate(0, 0, 1)
	end := start.AddDate(0, 0, periodDays-1)
	prevID := prev.ID
	order := &models.TiffinOrder{
		SubscriptionNo:   generateOrderNo("TF"),
		CustomerName:     prev.CustomerName,
		CustomerPhone:    prev.CustomerPhone,
		DeliveryAddress:  prev.DeliveryAddress,
		PostalCode:       prev.PostalCode,
		ZoneID:           prev.ZoneID,
		PlanName:         prev.PlanName,
		MealType:         prev.MealType,
		TiffinsPerDay:    prev.TiffinsPerDay,
		PricePerTiffin:   prev.PricePerTiffin,
		StartDate:        start,
		EndDate:          end,
		DeliveryDays:     append(models.StringArray{}, prev.DeliveryDays...),
		Status:           constants.TiffinStatusActive,
		Note:             prev.Note,
		TaxExempt:        prev.TaxExempt,
		DeliveryCharge:   prev.DeliveryCharge,
		RenewedFromID:    &prevID,
		CreatedByAdminID: adminID,
	}
	if err := s.price(order, resolveTaxRate(s.cfg, s.settingService)); err != nil {
		return nil, err
	}
	if err := s.persistNew(order, "", eventActionRenewed); err != nil {
		return nil, err
	}
	logger.Infow("tiffin_order_renewed",
		"tiffin_id", order.ID,
		"renewed_from", prev.ID,
		"start_date", formatDate(start),
		"end_date", formatDate(end),
	)
	return s.detail(order)
}

// RecordPayment 登记收款，累加到已预付
func (s *TiffinService) RecordPayment(ctx context.Context, id uint, rawAmount string, adminID uint) (*TiffinDetail, error) {
	amount, set, err := draft.ParseAmount(rawAmount)
	if err != nil || !set || !amount.IsPositive() {
		return nil, ErrPaymentAmount
	}
	order, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if order.Status == constants.TiffinStatusCanceled {
		return nil, ErrTiffinStatusInvalid
	}
	order.AdvancePaid = models.NewMoneyFromDecimal(order.AdvancePaid.Decimal.Add(amount))
	if err := s.price(order, order.TaxRate); err != nil {
		return nil, err
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.tiffinRepo.WithTx(tx).Save(order); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).CreateEvent(orderEvent(constants.DeliverySourceTiffin, order.ID, eventActionPayment, order.Status, order.Status, models.NewMoneyFromDecimal(amount), adminID))
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("tiffin_order_payment_recorded", "tiffin_id", order.ID, "amount", amount.StringFixed(2), "pending", order.PendingBalance.String())
	return s.detail(order)
}

// DueForRenewal 在 leadDays 天内到期、尚未提醒的订阅
func (s *TiffinService) DueForRenewal(leadDays int) ([]models.TiffinOrder, error) {
	if leadDays < 0 {
		leadDays = 0
	}
	until := dateOf(s.now()).AddDate(0, 0, leadDays)
	return s.tiffinRepo.ListDueForRenewal(until)
}

// SendRenewalReminders 发送续订提醒并将已结束的订阅置为过期，返回提醒数量
func (s *TiffinService) SendRenewalReminders(ctx context.Context, leadDays int) (int, error) {
	if leadDays <= 0 {
		leadDays = s.renewalLeadDays()
	}
	due, err := s.DueForRenewal(leadDays)
	if err != nil {
		return 0, err
	}
	now := s.now()
	sent := 0
	for i := range due {
		order := &due[i]
		if !s.notify(ctx, constants.NotifyEventTiffinRenewal, order) {
			continue
		}
		if err := s.tiffinRepo.MarkReminderSent(order.ID, now); err != nil {
			logger.Warnw("tiffin_reminder_mark_failed", "tiffin_id", order.ID, "error", err)
			continue
		}
		sent++
	}
	expired, err := s.tiffinRepo.ExpireEnded(dateOf(now))
	if err != nil {
		return sent, err
	}
	logger.Infow("tiffin_renewal_reminders_processed", "due", len(due), "sent", sent, "expired", expired)
	return sent, nil
}

func (s *TiffinService) renewalLeadDays() int {
	lead := 3
	if s.cfg != nil && s.cfg.Tiffin.RenewalLeadDays > 0 {
		lead = s.cfg.Tiffin.RenewalLeadDays
	}
	if s.settingService != nil {
		if v, err := s.settingService.GetInt(constants.SettingKeyOrderConfig, constants.SettingFieldRenewalLeadDays, lead); err == nil && v > 0 {
			lead = v
		}
	}
	return lead
}

// price 按配送天数计价，并以单行菜品交给 draft.Reconcile 对账
func (s *TiffinService) price(order *models.TiffinOrder, rate decimal.Decimal) error {
	days := countDeliveryDays(order.StartDate, order.EndDate, order.DeliveryDays)
	if days == 0 {
		return ErrTiffinNoDeliveryDay
	}
	d := tiffinDraft(order, days)
	totals := draft.Reconcile(d, rate)
	order.DeliveryDayCount = days
	order.TaxRate = rate
	order.Subtotal = models.NewMoneyFromDecimal(totals.Subtotal)
	order.TaxAmount = models.NewMoneyFromDecimal(totals.Tax)
	order.TotalAmount = models.NewMoneyFromDecimal(totals.Total)
	order.PendingBalance = models.NewMoneyFromDecimal(totals.PendingBalance)
	return nil
}

func (s *TiffinService) persistNew(order *models.TiffinOrder, email, action string) error {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.WithTx(tx).UpsertForOrder(&models.Customer{
			Name:       order.CustomerName,
			Phone:      order.CustomerPhone,
			Email:      email,
			Address:    order.DeliveryAddress,
			PostalCode: order.PostalCode,
		}, s.now())
		if err != nil {
			return err
		}
		order.CustomerID = customer.ID
		if err := s.tiffinRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).CreateEvent(orderEvent(constants.DeliverySourceTiffin, order.ID, action, "", order.Status, order.TotalAmount, order.CreatedByAdminID))
	})
	if err != nil {
		logger.Errorw("tiffin_order_create_failed", "customer_phone", order.CustomerPhone, "error", err)
		return fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}
	return nil
}

func (s *TiffinService) notify(ctx context.Context, event string, order *models.TiffinOrder) bool {
	if s.notificationService == nil {
		return false
	}
	if _, err := s.notificationService.Dispatch(ctx, notifyPayload(event, constants.DeliverySourceTiffin, order.ID, order.Status)); err != nil {
		logger.Warnw("tiffin_order_notify_failed", "tiffin_id", order.ID, "event", event, "error", err)
		return false
	}
	return true
}

func (s *TiffinService) lookupZoneID(postalCode string) *uint {
	if postalCode == "" || s.zoneRepo == nil {
		return nil
	}
	zones, err := s.zoneRepo.List(true)
	if err != nil {
		logger.Warnw("zone_lookup_failed", "postal_code", postalCode, "error", err)
		return nil
	}
	if zone := MatchZone(zones, postalCode); zone != nil {
		id := zone.ID
		return &id
	}
	return nil
}

func (s *TiffinService) load(id uint) (*models.TiffinOrder, error) {
	order, err := s.tiffinRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrTiffinNotFound
	}
	return order, nil
}

func (s *TiffinService) detail(order *models.TiffinOrder) (*TiffinDetail, error) {
	events, err := s.orderRepo.ListEvents(constants.DeliverySourceTiffin, order.ID)
	if err != nil {
		return nil, err
	}
	d := tiffinDraft(order, order.DeliveryDayCount)
	return &TiffinDetail{
		Order:        order,
		PaymentState: order.PaymentState(),
		Totals:       draft.Reconcile(d, order.TaxRate),
		Events:       events,
	}, nil
}

func tiffinDraft(order *models.TiffinOrder, days int) draft.Draft {
	d := draft.New()
	d.Items = append(d.Items, draft.LineItem{
		Name:         order.PlanName,
		Size:         draft.SizeMedium,
		Quantity:     days * order.TiffinsPerDay,
		PriceAtOrder: order.PricePerTiffin.Decimal,
	})
	d.DeliveryCharge = order.DeliveryCharge.Decimal
	d.Discount = order.Discount.Decimal
	d.AdvancePaid = order.AdvancePaid.Decimal
	d.TaxExempt = order.TaxExempt
	return d
}

// countDeliveryDays 统计 [start,end] 内落在配送星期上的天数
func countDeliveryDays(start, end time.Time, days []string) int {
	start, end = dateOf(start), dateOf(end)
	if end.Before(start) {
		return 0
	}
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if deliversOn(days, day.Weekday()) {
			count++
		}
	}
	return count
}

func deliversOn(days []string, weekday time.Weekday) bool {
	for _, code := range days {
		if wd, ok := weekdayCodes[code]; ok && wd == weekday {
			return true
		}
	}
	return false
}

// normalizeDeliveryDays 小写、去重并按周一到周日排序
func normalizeDeliveryDays(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	for _, code := range raw {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if len(code) > 3 {
			code = code[:3]
		}
		seen[code] = true
	}
	out := make([]string, 0, len(seen))
	for _, code := range weekdayOrder {
		if seen[code] {
			out = append(out, code)
			delete(seen, code)
		}
	}
	for code := range seen {
		out = append(out, code)
	}
	return out
}
