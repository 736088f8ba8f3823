package repository

import (

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// StaffRepository 员工数据访问接口
type StaffRepository interface {
	GetByID(id uint) (*models.Staff, error)
	List(filter StaffListFilter) ([]models.Staff, int64, error)
	CountByStore(storeID uint) (int64, error)
	Create(staff *models.Staff) error
	Update(staff *models.Staff) error
	Delete(id uint) error
}

// GormStaffRepository GORM 实现
type GormStaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建员工仓库
func NewStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// GetByID 根据 ID 获取员工
func (r *GormStaffRepository) GetByID(id uint) (*models.Staff, error) {
	return firstOrNil[models.Staff](r.db.Preload("Store"), id)
}

// List 员工列表
func (r *GormStaffRepository) List(filter StaffListFilter) ([]models.Staff, int64, error) {
	query := r.db.Model(&models.Staff{})
	if filter.StoreID != 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = applySearch(query, filter.Search, "name", "phone")

	staff := make([]models.Staff, 0)
	total, err := countAndFind(query, filter.Pagination, "store_id asc, id asc", &staff)
	if err != nil {
		return nil, 0, err
	}
	return staff, total, nil
}

// CountByStore 统计门店员工数
func (r *GormStaffRepository) CountByStore(storeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Staff{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create 创建员工
func (r *GormStaffRepository) Create(staff *models.Staff) error {
	return r.db.Create(staff).Error
}

// Update 更新员工
func (r *GormStaffRepository) Update(staff *models.Staff) error {
	return r.db.Omit("Store").Save(staff).Error
}

// Delete 删除员工
func (r *GormStaffRepository) Delete(id uint) error {
	return r.db.Delete(&models.Staff{}, id).Error
}
