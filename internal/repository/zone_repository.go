package repository

import (

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// ZoneRepository 配送区域数据访问接口
type ZoneRepository interface {
	GetByID(id uint) (*models.DeliveryZone, error)
	List(activeOnly bool) ([]models.DeliveryZone, error)
	Create(zone *models.DeliveryZone) error
	Update(zone *models.DeliveryZone) error
	Delete(id uint) error
}

// GormZoneRepository GORM 实现
type GormZoneRepository struct {
	db *gorm.DB
}

// NewZoneRepository 创建配送区域仓库
func NewZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// GetByID 根据 ID 获取区域
func (r *GormZoneRepository) GetByID(id uint) (*models.DeliveryZone, error) {
	return firstOrNil[models.DeliveryZone](r.db, id)
}

// List 区域列表
func (r *GormZoneRepository) List(activeOnly bool) ([]models.DeliveryZone, error) {
	zones := make([]models.DeliveryZone, 0)
	query := r.db.Model(&models.DeliveryZone{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("sort_order desc, id asc").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

// Create 创建区域
func (r *GormZoneRepository) Create(zone *models.DeliveryZone) error {
	return r.db.Create(zone).Error
}

// Update 更新区域
func (r *GormZoneRepository) Update(zone *models.DeliveryZone) error {
	return r.db.Save(zone).Error
}

// Delete 删除区域
func (r *GormZoneRepository) Delete(id uint) error {
	return r.db.Delete(&models.DeliveryZone{}, id).Error
}
