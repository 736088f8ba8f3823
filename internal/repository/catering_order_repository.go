package repository

import (

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// CateringOrderRepository 餐饮订单数据访问接口
type CateringOrderRepository interface {
	Create(order *models.CateringOrder) error
	GetByID(id uint) (*models.CateringOrder, error)
	GetByOrderNo(orderNo string) (*models.CateringOrder, error)
	List(filter CateringOrderListFilter) ([]models.CateringOrder, int64, error)
	Save(order *models.CateringOrder) error
	TransitionStatus(id uint, from, to string, updates map[string]interface{}) (bool, error)
	MarkNotificationSent(id uint) error
	CreateEvent(event *models.OrderEvent) error
	ListEvents(sourceType string, sourceID uint) ([]models.OrderEvent, error)
	WithTx(tx *gorm.DB) *GormCateringOrderRepository
}

// GormCateringOrderRepository GORM 实现
type GormCateringOrderRepository struct {
	db *gorm.DB
}

// NewCateringOrderRepository 创建餐饮订单仓库
func NewCateringOrderRepository(db *gorm.DB) *GormCateringOrderRepository {
	return &GormCateringOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCateringOrderRepository) WithTx(tx *gorm.DB) *GormCateringOrderRepository {
	if tx == nil {
		return r
	}
	return &GormCateringOrderRepository{db: tx}
}

// Create 创建订单
func (r *GormCateringOrderRepository) Create(order *models.CateringOrder) error {
	return r.db.Create(order).Error
}

// GetByID 根据 ID 获取订单
func (r *GormCateringOrderRepository) GetByID(id uint) (*models.CateringOrder, error) {
	return firstOrNil[models.CateringOrder](r.db, id)
}

// GetByOrderNo 根据订单号获取订单
func (r *GormCateringOrderRepository) GetByOrderNo(orderNo string) (*models.CateringOrder, error) {
	return firstOrNil[models.CateringOrder](r.db.Where("order_no = ?", orderNo))
}

// List 订单列表
func (r *GormCateringOrderRepository) List(filter CateringOrderListFilter) ([]models.CateringOrder, int64, error) {
	query := r.db.Model(&models.CateringOrder{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	switch filter.PaymentState {
	case constants.PaymentStatePending:
		query = query.Where("pending_balance > 0")
	case constants.PaymentStatePaid:
		query = query.Where("pending_balance = 0")
	case constants.PaymentStateOverpaid:
		query = query.Where("pending_balance < 0")
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.DeliveryFrom != nil {
		query = query.Where("delivery_date >= ?", *filter.DeliveryFrom)
	}
	if filter.DeliveryTo != nil {
		query = query.Where("delivery_date <= ?", *filter.DeliveryTo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	query = applySearch(query, filter.Search, "customer_name", "customer_phone", "order_no")

	orders := make([]models.CateringOrder, 0)
	total, err := countAndFind(query, filter.Pagination, "delivery_date desc, id desc", &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save 保存订单全部字段（改单、收款）
func (r *GormCateringOrderRepository) Save(order *models.CateringOrder) error {
	return r.db.Save(order).Error
}

// TransitionStatus 条件更新状态：仅当当前状态为 from 时生效，返回是否更新成功
func (r *GormCateringOrderRepository) TransitionStatus(id uint, from, to string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	result := r.db.Model(&models.CateringOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkNotificationSent 标记通知已发出
func (r *GormCateringOrderRepository) MarkNotificationSent(id uint) error {
	return r.db.Model(&models.CateringOrder{}).Where("id = ?", id).Update("notification_sent", true).Error
}

// CreateEvent 写入订单流水
func (r *GormCateringOrderRepository) CreateEvent(event *models.OrderEvent) error {
	return r.db.Create(event).Error
}

// ListEvents 获取订单流水
func (r *GormCateringOrderRepository) ListEvents(sourceType string, sourceID uint) ([]models.OrderEvent, error) {
	events := make([]models.OrderEvent, 0)
	if err := r.db.Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("id asc").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
