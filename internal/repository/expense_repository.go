package repository

import (

	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// ExpenseRepository 支出数据访问接口
type ExpenseRepository interface {
	GetByID(id uint) (*models.Expense, error)
	List(filter ExpenseListFilter) ([]models.Expense, int64, error)
	Create(expense *models.Expense) error
	Update(expense *models.Expense) error
	Delete(id uint) error
}

// GormExpenseRepository GORM 实现
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository 创建支出仓库
func NewExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// GetByID 根据 ID 获取支出
func (r *GormExpenseRepository) GetByID(id uint) (*models.Expense, error) {
	return firstOrNil[models.Expense](r.db, id)
}

// List 支出列表
func (r *GormExpenseRepository) List(filter ExpenseListFilter) ([]models.Expense, int64, error) {
	query := r.db.Model(&models.Expense{})
	if filter.StoreID != 0 {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.From != nil {
		query = query.Where("spent_on >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("spent_on <= ?", *filter.To)
	}

	expenses := make([]models.Expense, 0)
	total, err := countAndFind(query, filter.Pagination, "spent_on desc, id desc", &expenses)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// Create 创建支出
func (r *GormExpenseRepository) Create(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

// Update 更新支出
func (r *GormExpenseRepository) Update(expense *models.Expense) error {
	return r.db.Save(expense).Error
}

// Delete 删除支出
func (r *GormExpenseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Expense{}, id).Error
}
