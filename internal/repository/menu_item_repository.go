package repository

import (

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// MenuItemRepository 菜单数据访问接口
type MenuItemRepository interface {
	GetByID(id uint) (*models.MenuItem, error)
	GetByIDs(ids []uint) ([]models.MenuItem, error)
	List(filter MenuItemListFilter) ([]models.MenuItem, int64, error)
	ListCategories() ([]string, error)
	Create(item *models.MenuItem) error
	Update(item *models.MenuItem) error
	Delete(id uint) error
}

// GormMenuItemRepository GORM 实现
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository 创建菜单仓库
func NewMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// GetByID 根据 ID 获取菜单项
func (r *GormMenuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	return firstOrNil[models.MenuItem](r.db, id)
}

// GetByIDs 批量获取菜单项
func (r *GormMenuItemRepository) GetByIDs(ids []uint) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List 菜单列表
func (r *GormMenuItemRepository) List(filter MenuItemListFilter) ([]models.MenuItem, int64, error) {
	query := r.db.Model(&models.MenuItem{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	query = applySearch(query, filter.Search, "name", "description")

	items := make([]models.MenuItem, 0)
	total, err := countAndFind(query, filter.Pagination, "sort_order desc, id asc", &items)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListCategories 列出已使用的分类
func (r *GormMenuItemRepository) ListCategories() ([]string, error) {
	categories := make([]string, 0)
	if err := r.db.Model(&models.MenuItem{}).
		Where("category <> ''").
		Distinct("category").
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create 创建菜单项
func (r *GormMenuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// Update 更新菜单项
func (r *GormMenuItemRepository) Update(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

// Delete 删除菜单项（软删除），已下单的价格快照不受影响
func (r *GormMenuItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.MenuItem{}, id).Error
}
