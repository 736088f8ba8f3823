package repository

import (

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// DriverRepository 配送员数据访问接口
type DriverRepository interface {
	GetByID(id uint) (*models.Driver, error)
	List(activeOnly bool) ([]models.Driver, error)
	Create(driver *models.Driver) error
	Update(driver *models.Driver) error
	Delete(id uint) error
}

// GormDriverRepository GORM 实现
type GormDriverRepository struct {
	db *gorm.DB
}

// NewDriverRepository 创建配送员仓库
func NewDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// GetByID 根据 ID 获取配送员
func (r *GormDriverRepository) GetByID(id uint) (*models.Driver, error) {
	return firstOrNil[models.Driver](r.db, id)
}

// List 配送员列表
func (r *GormDriverRepository) List(activeOnly bool) ([]models.Driver, error) {
	drivers := make([]models.Driver, 0)
	query := r.db.Model(&models.Driver{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name asc").Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

// Create 创建配送员
func (r *GormDriverRepository) Create(driver *models.Driver) error {
	return r.db.Create(driver).Error
}

// Update 更新配送员
func (r *GormDriverRepository) Update(driver *models.Driver) error {
	return r.db.Save(driver).Error
}

// Delete 删除配送员
func (r *GormDriverRepository) Delete(id uint) error {
	return r.db.Delete(&models.Driver{}, id).Error
}
