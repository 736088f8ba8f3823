package repository

import (

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryRepository 配送单数据访问接口
type DeliveryRepository interface {
	CreateIfAbsent(delivery *models.Delivery) (bool, error)
	GetByID(id uint) (*models.Delivery, error)
	ListByOrderNo(orderNo string) ([]models.Delivery, error)
	List(filter DeliveryListFilter) ([]models.Delivery, int64, error)
	Update(id uint, updates map[string]interface{}) error
	UpdateBySource(sourceType string, sourceID uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormDeliveryRepository
}

// GormDeliveryRepository GORM 实现
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建配送单仓库
func NewDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryRepository) WithTx(tx *gorm.DB) *GormDeliveryRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryRepository{db: tx}
}

// CreateIfAbsent 按 (来源, 日期) 幂等创建配送单，返回是否新建
func (r *GormDeliveryRepository) CreateIfAbsent(delivery *models.Delivery) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(delivery)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByID 根据 ID 获取配送单
func (r *GormDeliveryRepository) GetByID(id uint) (*models.Delivery, error) {
	return firstOrNil[models.Delivery](r.db.Preload("Driver").Preload("Zone"), id)
}

// ListByOrderNo 按订单/订阅编号查询配送单
func (r *GormDeliveryRepository) ListByOrderNo(orderNo string) ([]models.Delivery, error) {
	deliveries := make([]models.Delivery, 0)
	if err := r.db.Preload("Driver").
		Where("order_no = ?", orderNo).
		Order("scheduled_date desc, id desc").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// List 配送单列表
func (r *GormDeliveryRepository) List(filter DeliveryListFilter) ([]models.Delivery, int64, error) {
	query := r.db.Model(&models.Delivery{})
	if filter.Date != nil {
		query = query.Where("scheduled_date = ?", *filter.Date)
	}
	if filter.ZoneID != 0 {
		query = query.Where("zone_id = ?", filter.ZoneID)
	}
	if filter.DriverID != 0 {
		query = query.Where("driver_id = ?", filter.DriverID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SourceType != "" {
		query = query.Where("source_type = ?", filter.SourceType)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	deliveries := make([]models.Delivery, 0)
	if err := filter.apply(query).
		Preload("Driver").Preload("Zone").
		Order("scheduled_date asc, zone_id asc, id asc").
		Find(&deliveries).Error; err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

// Update 更新配送单字段
func (r *GormDeliveryRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Delivery{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateBySource 更新某来源下全部配送单（例如订单改地址、改日期）
func (r *GormDeliveryRepository) UpdateBySource(sourceType string, sourceID uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Delivery{}).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Updates(updates).Error
}
