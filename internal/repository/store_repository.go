package repository

import (

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 门店数据访问接口
type StoreRepository interface {
	GetByID(id uint) (*models.Store, error)
	GetByCode(code string) (*models.Store, error)
	List() ([]models.Store, error)
	Create(store *models.Store) error
	Update(store *models.Store) error
	Delete(id uint) error
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门店仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// GetByID 根据 ID 获取门店
func (r *GormStoreRepository) GetByID(id uint) (*models.Store, error) {
	return firstOrNil[models.Store](r.db, id)
}

// GetByCode 根据编码获取门店
func (r *GormStoreRepository) GetByCode(code string) (*models.Store, error) {
	return firstOrNil[models.Store](r.db.Where("code = ?", code))
}

// List 门店列表
func (r *GormStoreRepository) List() ([]models.Store, error) {
	stores := make([]models.Store, 0)
	if err := r.db.Order("id asc").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Create 创建门店
func (r *GormStoreRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

// Update 更新门店
func (r *GormStoreRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

// Delete 删除门店
func (r *GormStoreRepository) Delete(id uint) error {
	return r.db.Delete(&models.Store{}, id).Error
}
