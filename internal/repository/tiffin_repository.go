package repository

import (
	"time"

	"github.com/tiffin-desk/internal/constants"
	"github.com/tiffin-desk/internal/models"

	"gorm.io/gorm"
)

// TiffinRepository 包月订阅数据访问接口
type TiffinRepository interface {
	Create(order *models.TiffinOrder) error
	GetByID(id uint) (*models.TiffinOrder, error)
	GetBySubscriptionNo(no string) (*models.TiffinOrder, error)
	GetRenewalOf(id uint) (*models.TiffinOrder, error)
	List(filter TiffinListFilter) ([]models.TiffinOrder, int64, error)
	Save(order *models.TiffinOrder) error
	TransitionStatus(id uint, from, to string, updates map[string]interface{}) (bool, error)
	ListDueForRenewal(until time.Time) ([]models.TiffinOrder, error)
	ListActiveOn(day time.Time) ([]models.TiffinOrder, error)
	MarkReminderSent(id uint, at time.Time) error
	ExpireEnded(before time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormTiffinRepository
}

// GormTiffinRepository GORM 实现
type GormTiffinRepository struct {
	db *gorm.DB
}

// NewTiffinRepository 创建包月订阅仓库
func NewTiffinRepository(db *gorm.DB) *GormTiffinRepository {
	return &GormTiffinRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTiffinRepository) WithTx(tx *gorm.DB) *GormTiffinRepository {
	if tx == nil {
		return r
	}
	return &GormTiffinRepository{db: tx}
}

// Create 创建订阅
func (r *GormTiffinRepository) Create(order *models.TiffinOrder) error {
	return r.db.Create(order).Error
}

// GetByID 根据 ID 获取订阅
func (r *GormTiffinRepository) GetByID(id uint) (*models.TiffinOrder, error) {
	return firstOrNil[models.TiffinOrder](r.db, id)
}

// GetBySubscriptionNo 根据订阅编号获取订阅
func (r *GormTiffinRepository) GetBySubscriptionNo(no string) (*models.TiffinOrder, error) {
	return firstOrNil[models.TiffinOrder](r.db.Where("subscription_no = ?", no))
}

// List 订阅列表
func (r *GormTiffinRepository) List(filter TiffinListFilter) ([]models.TiffinOrder, int64, error) {
	query := r.db.Model(&models.TiffinOrder{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MealType != "" {
		query = query.Where("meal_type = ?", filter.MealType)
	}
	if filter.ActiveOn != nil {
		query = query.Where("start_date <= ? AND end_date >= ?", *filter.ActiveOn, *filter.ActiveOn)
	}
	query = applySearch(query, filter.Search, "customer_name", "customer_phone", "subscription_no", "plan_name")

	orders := make([]models.TiffinOrder, 0)
	total, err := countAndFind(query, filter.Pagination, "end_date asc, id desc", &orders)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save 保存订阅全部字段
func (r *GormTiffinRepository) Save(order *models.TiffinOrder) error {
	return r.db.Save(order).Error
}

// GetRenewalOf 获取由指定订阅续订而来的订阅
func (r *GormTiffinRepository) GetRenewalOf(id uint) (*models.TiffinOrder, error) {
	return firstOrNil[models.TiffinOrder](r.db.Where("renewed_from_id = ?", id))
}

// TransitionStatus 条件更新状态：仅当当前状态为 from 时生效
func (r *GormTiffinRepository) TransitionStatus(id uint, from, to string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	result := r.db.Model(&models.TiffinOrder{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListDueForRenewal 在 until 之前到期、尚未提醒且未被续订的活跃订阅
func (r *GormTiffinRepository) ListDueForRenewal(until time.Time) ([]models.TiffinOrder, error) {
	orders := make([]models.TiffinOrder, 0)
	renewed := r.db.Model(&models.TiffinOrder{}).Select("renewed_from_id").Where("renewed_from_id IS NOT NULL")
	if err := r.db.
		Where("status = ? AND end_date <= ? AND reminder_sent_at IS NULL", constants.TiffinStatusActive, until).
		Where("id NOT IN (?)", renewed).
		Order("end_date asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListActiveOn 指定日期处于订阅期内的活跃订阅
func (r *GormTiffinRepository) ListActiveOn(day time.Time) ([]models.TiffinOrder, error) {
	orders := make([]models.TiffinOrder, 0)
	if err := r.db.
		Where("status = ? AND start_date <= ? AND end_date >= ?", constants.TiffinStatusActive, day, day).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkReminderSent 记录续订提醒时间
func (r *GormTiffinRepository) MarkReminderSent(id uint, at time.Time) error {
	return r.db.Model(&models.TiffinOrder{}).Where("id = ?", id).Update("reminder_sent_at", at).Error
}

// ExpireEnded 将结束日期早于 before 的活跃/暂停订阅置为已过期
func (r *GormTiffinRepository) ExpireEnded(before time.Time) (int64, error) {
	result := r.db.Model(&models.TiffinOrder{}).
		Where("status IN ? AND end_date < ?", []string{constants.TiffinStatusActive, constants.TiffinStatusPaused}, before).
		Update("status", constants.TiffinStatusExpired)
	return result.RowsAffected, result.Error
}
